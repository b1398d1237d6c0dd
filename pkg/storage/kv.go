package storage

import (
	"context"
	"net/url"
	"os"

	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
)

// FileKV is a client-local key/value store kept as one file per key. It
// backs the session token and the capture draft when redis is not configured.
type FileKV struct {
	files  *LocalStorage
	prefix string
}

// NewFileKV stores values under dir.
func NewFileKV(dir, prefix string) (*FileKV, error) {
	files, err := NewLocalStorage(dir)
	if err != nil {
		return nil, err
	}
	return &FileKV{files: files, prefix: prefix}, nil
}

// Get returns the value for key or appErrors.ErrStoreMiss.
func (s *FileKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.files.Read(s.name(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, appErrors.ErrStoreMiss
		}
		return nil, err
	}
	return data, nil
}

// Set replaces the value for key.
func (s *FileKV) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.files.Save(s.name(key), value)
	return err
}

// Delete removes key; deleting a missing key is not an error.
func (s *FileKV) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.files.Delete(s.name(key))
}

func (s *FileKV) name(key string) string {
	return url.PathEscape(s.prefix+key) + ".kv"
}
