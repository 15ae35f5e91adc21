package connection

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// BindTx returns a gorm handle whose statements run on tx, so gorm
// repositories can join a transaction opened by a service with database/sql.
// A nil tx returns db unchanged.
func BindTx(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if tx == nil {
		return db
	}
	// a non-nil Context forces Session to clone the statement; otherwise the
	// ConnPool swap below would leak into db.
	bound := db.Session(&gorm.Session{
		NewDB:                  true,
		Context:                context.Background(),
		SkipDefaultTransaction: true,
	})
	bound.Statement.ConnPool = tx
	return bound
}
