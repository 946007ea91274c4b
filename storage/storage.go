package storage

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"capsule/errors"
)

// Store keeps source media on local disk, keyed by filename.
type Store struct {
	uploadDir string
}

func NewStore(uploadDir string) (*Store, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, err
	}
	return &Store{uploadDir: uploadDir}, nil
}

func (s *Store) UploadPath(filename string) string {
	return filepath.Join(s.uploadDir, filename)
}

// SaveUpload writes a multipart upload to the upload directory and returns
// the stored path and byte count.
func (s *Store) SaveUpload(file *multipart.FileHeader, filename string) (string, int64, error) {
	const op = "Store.SaveUpload"

	src, err := file.Open()
	if err != nil {
		return "", 0, errors.Internal(op, err, "Failed to open uploaded file")
	}
	defer src.Close()

	path := s.UploadPath(filename)
	dst, err := os.Create(path)
	if err != nil {
		return "", 0, errors.Internal(op, err, "Failed to create destination file")
	}
	defer dst.Close()

	n, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(path)
		return "", 0, errors.Internal(op, err, "Failed to write uploaded file")
	}

	return path, n, nil
}

// Resolve reports the on-disk location of a stored file and whether it exists.
func (s *Store) Resolve(filename string) (string, bool) {
	path := s.UploadPath(filename)
	if _, err := os.Stat(path); err != nil {
		return path, false
	}
	return path, true
}

func (s *Store) Delete(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
