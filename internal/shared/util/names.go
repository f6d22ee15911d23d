// Package util has the small helpers shared by the object stores.
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// HashUserKey maps a user ID to a stable, filesystem- and URL-safe
// storage namespace. Raw IDs carry provider prefixes and colons.
func HashUserKey(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:])
}

// SanitizeFileName strips path separators from an uploaded file name and
// rejects traversal attempts outright.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}
