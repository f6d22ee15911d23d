package local

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"justiplay-backend/internal/shared/storage/object"
	"justiplay-backend/internal/shared/util"
)

// Store keeps documents and derived artifacts on the local filesystem,
// for development and tests. Layout mirrors the S3 store: a hashed user
// namespace, a random upload token per file, artifacts stored under
// their exact keys.
type Store struct {
	baseDir string
}

func New(baseDir string) object.ObjectStore {
	return &Store{baseDir: baseDir}
}

// Save writes an uploaded document and reports its storage key, size and
// sniffed content type.
func (s *Store) Save(ctx context.Context, userId string, fileName string, r io.Reader) (string, int64, string, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, "", err
	}

	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", 0, "", fmt.Errorf("sanitize file name: %w", err)
	}
	storageKey := filepath.Join(util.HashUserKey(userId), uploadToken()+"_"+name)

	var head [512]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", 0, "", fmt.Errorf("read upload: %w", err)
	}
	mimeType := http.DetectContentType(head[:n])

	size, err := s.writeFile(storageKey, io.MultiReader(bytes.NewReader(head[:n]), r))
	if err != nil {
		return "", 0, "", err
	}
	return storageKey, size, mimeType, nil
}

// SaveWithKey writes a derived artifact at an exact storage key. The
// content type is recorded by callers, not the filesystem.
func (s *Store) SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := validKey(storageKey); err != nil {
		return 0, err
	}
	_ = contentType
	return s.writeFile(storageKey, r)
}

// Open streams a stored object.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validKey(storageKey); err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(s.baseDir, filepath.Clean(storageKey)))
}

func (s *Store) writeFile(storageKey string, r io.Reader) (int64, error) {
	fullPath := filepath.Join(s.baseDir, filepath.Clean(storageKey))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		return 0, fmt.Errorf("write body: %w", err)
	}
	return written, nil
}

// validKey rejects keys that would escape the base directory.
func validKey(storageKey string) error {
	clean := filepath.Clean(storageKey)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid storage key")
	}
	return nil
}

func uploadToken() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

var _ object.ObjectStore = (*Store)(nil)
