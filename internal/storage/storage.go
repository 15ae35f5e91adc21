package storage

import (
	"context"
	"errors"
)

// Object is a file handed to object storage. Data is kept in memory so a
// failed upload can be replayed. Key names the object inside Folder; storing
// the same Key twice overwrites, so a replayed upload never leaves a second
// copy behind. An empty Key is derived from Filename.
type Object struct {
	Data        []byte
	Filename    string
	ContentType string
	Folder      string
	Key         string
}

type StoredObject struct {
	URL      string
	StoredID string
}

//go:generate mockgen -source=storage.go -destination=mock/storage_mock.go -package=mock
type ObjectStorage interface {
	Store(ctx context.Context, obj Object) (StoredObject, error)
	Delete(ctx context.Context, storedID string) error
}

// ErrRejected marks failures that retrying cannot fix (bad credentials,
// unsupported file).
var ErrRejected = errors.New("storage rejected the request")
