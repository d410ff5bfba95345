package core

import (
	"context"
	"io"
)

// FileStorage is any service that can store an uploaded document
// and hand back a public URL for it.
type FileStorage interface {
	Save(ctx context.Context, name string, contentType string, r io.Reader) (url string, err error)
}
