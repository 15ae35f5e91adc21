package declaration

import (
	"encoding/base64"
	"encoding/json"
	"time"

	declarationerrors "go-hrportal/internal/declaration/errors"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 200
	MaxListLimit     = 500
)

// Cursor marks the last row of a page in creation order.
type Cursor struct {
	CreatedAt time.Time `json:"c"`
	ID        uuid.UUID `json:"i"`
}

func EncodeCursor(c Cursor) string {
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func DecodeCursor(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, declarationerrors.ErrInvalidCursor
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil || c.ID == uuid.Nil {
		return nil, declarationerrors.ErrInvalidCursor
	}
	return &c, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
