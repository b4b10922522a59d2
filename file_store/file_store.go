package file_store

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

const DefaultContentType = "application/octet-stream"

// Asset is a client supplied file on its way to object storage.
type Asset struct {
	// Name of the file as sent by the client.
	Filename    string
	ContentType string
	Body        io.Reader
}

// FileStore persists a file under a key and returns the public URL it can be
// fetched from. Implementations must honor ctx cancellation. Delete of a
// missing key is not an error.
type FileStore interface {
	Store(ctx context.Context, key string, body io.Reader, contentType string) (url string, err error)
	Delete(ctx context.Context, key string) error
}

var contentTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"ogg":  "audio/ogg",
	"flac": "audio/flac",
	"m4a":  "audio/mp4",
	"aac":  "audio/aac",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
	"svg":  "image/svg+xml",
}

// ContentTypeOf picks the content type of a file, the declared one wins over
// the extension lookup.
func ContentTypeOf(filename string, declared string) string {
	if declared != "" && declared != DefaultContentType {
		return declared
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return DefaultContentType
}

func joinUrl(base string, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
