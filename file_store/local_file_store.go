package file_store

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// LocalFileStore keeps files in a folder on disk, for development setups
// without object storage. The server exposes the folder under baseUrl.
type LocalFileStore struct {
	folderName string
	baseUrl    string
}

func NewLocalFileStore(folderName string, baseUrl string) (*LocalFileStore, error) {
	if err := os.MkdirAll(folderName, os.ModePerm); err != nil {
		return nil, err
	}
	return &LocalFileStore{
		folderName: folderName,
		baseUrl:    baseUrl,
	}, nil
}

func (s *LocalFileStore) FolderName() string {
	return s.folderName
}

func (s *LocalFileStore) Store(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	localPath := filepath.Join(s.folderName, filepath.Base(key))

	//open a file for writing
	file, err := os.Create(localPath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create %s", localPath)
	}
	defer file.Close()

	// Use io.Copy to just dump the body to the file. This supports huge files
	if _, err = io.Copy(file, body); err != nil {
		os.Remove(localPath)
		return "", errors.Wrapf(err, "failed to write %s", localPath)
	}

	return s.GetUrlFromKey(key), nil
}

func (s *LocalFileStore) GetUrlFromKey(key string) string {
	return joinUrl(s.baseUrl, filepath.Base(key))
}

func (s *LocalFileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	localPath := filepath.Join(s.folderName, filepath.Base(key))
	if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to remove %s", localPath)
	}
	return nil
}
