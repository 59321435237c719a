package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"

	"github.com/shivamhw/reddit-purge/commons"
	. "github.com/shivamhw/reddit-purge/pkg/log"
)

// FileStore writes one JSON file per item under BasePath/<kind>s/<id>.json.
type FileStore struct {
	BasePath string
}

func NewFileStore(path string) (*FileStore, error) {
	f := &FileStore{BasePath: path}
	if err := f.sanitize(); err != nil {
		return nil, err
	}
	if err := f.CreateDir(f.BasePath); err != nil {
		return nil, errors.Wrapf(err, "create archive dir %s", f.BasePath)
	}
	return f, nil
}

func (f *FileStore) sanitize() (err error) {
	if f.BasePath == "" {
		f.BasePath = "./archive"
	}
	f.BasePath, err = filepath.Abs(f.BasePath)
	Infof("archive path", "path", f.BasePath)
	return err
}

func (f *FileStore) path(i commons.Item) string {
	return filepath.Join(f.BasePath, string(i.Kind())+"s", i.GetID()+".json")
}

func (f *FileStore) Write(i commons.Item) (string, error) {
	path := f.path(i)
	if err := f.CreateDir(filepath.Dir(path)); err != nil {
		return path, errors.Wrapf(err, "create dir for %s", path)
	}
	data, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return path, errors.Wrapf(err, "encode %s %s", i.Kind(), i.GetID())
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return path, errors.Wrapf(err, "write %s", path)
	}
	Debugf("archived", "path", path)
	return path, nil
}

func (f *FileStore) CreateDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
