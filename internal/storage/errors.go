package storage

import (
	"fmt"
	"path"
	"strings"

	"github.com/dukerupert/festa/internal/domain"
)

// Storage errors. Returned errors wrap these, so callers match with errors.Is.
var (
	ErrNotFound   = &domain.Error{Code: domain.ENOTFOUND, Message: "File not found"}
	ErrInvalidKey = &domain.Error{Code: domain.EINVALID, Message: "Invalid file key"}
	ErrConfig     = &domain.Error{Code: domain.EINVALID, Message: "Invalid storage configuration"}
)

// ErrFileNotFound creates an error for when a file is not found.
func ErrFileNotFound(key string) error {
	return domain.WrapError(ErrNotFound, domain.ENOTFOUND, "storage.get", fmt.Sprintf("file not found: %s", key))
}

// ErrUnknownProvider creates an error for unknown storage providers.
func ErrUnknownProvider(provider string) error {
	return domain.WrapError(ErrConfig, domain.EINVALID, "storage.new", fmt.Sprintf("unknown storage provider: %s", provider))
}

func configError(message string) error {
	return domain.WrapError(ErrConfig, domain.EINVALID, "storage.new", message)
}

// cleanKey rejects keys that are absolute or escape the storage root.
func cleanKey(key string) (string, error) {
	cleaned := path.Clean(strings.TrimSpace(key))
	if key == "" || cleaned == "." || strings.HasPrefix(cleaned, "/") || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", domain.WrapError(ErrInvalidKey, domain.EINVALID, "storage.key", fmt.Sprintf("invalid key %q", key))
	}
	return cleaned, nil
}
