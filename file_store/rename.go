package file_store

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const renameTimeLayout = "20060102150405"

var (
	ErrInvalidFilename = errors.New("Invalid filename")

	unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
)

// RenameFile turns a client filename into a collision resistant storage key:
// "YYYYMMDDHHMMSS--<sanitized lower case stem>.<ext>". Names without an
// extension, or whose stem or extension sanitize to nothing, are rejected.
func RenameFile(filename string, now time.Time) (string, error) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return "", ErrInvalidFilename
	}
	stem := SecureFilename(strings.ToLower(filename[:idx]))
	ext := SecureFilename(filename[idx+1:])
	if stem == "" || ext == "" {
		return "", ErrInvalidFilename
	}
	return now.Format(renameTimeLayout) + "--" + stem + "." + ext, nil
}

// SecureFilename reduces name to ASCII letters, digits, "_", "." and "-" so
// it is safe as a path segment and an object key.
func SecureFilename(name string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r > unicode.MaxASCII {
			continue
		}
		b.WriteRune(r)
	}
	ascii := strings.NewReplacer("/", " ", "\\", " ").Replace(b.String())
	joined := strings.Join(strings.Fields(ascii), "_")
	return strings.Trim(unsafeFilenameChars.ReplaceAllString(joined, ""), "._")
}
