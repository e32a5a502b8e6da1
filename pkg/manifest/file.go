package manifest

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vango-dev/fantoccini/internal/errors"
)

// FileStore keeps the manifest in a local JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a store for the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the manifest file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and decodes the manifest file.
func (s *FileStore) Load(context.Context) (*Manifest, error) {
	data, err := os.ReadFile(s.path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.New("E131").WithDetail("%s", s.path)
	}
	if err != nil {
		return nil, errors.New("E130").WithDetail("reading %s", s.path).Wrap(err)
	}
	return Decode(data)
}

// Save writes the manifest through a temporary file in the same directory
// so readers never see a partial file.
func (s *FileStore) Save(_ context.Context, m *Manifest) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.New("E130").WithDetail("creating %s", dir).Wrap(err)
	}
	tmp, err := os.CreateTemp(dir, ".manifest-*")
	if err != nil {
		return errors.New("E130").WithDetail("writing %s", s.path).Wrap(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.New("E130").WithDetail("writing %s", s.path).Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return errors.New("E130").WithDetail("writing %s", s.path).Wrap(err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.New("E130").WithDetail("replacing %s", s.path).Wrap(err)
	}
	return nil
}
