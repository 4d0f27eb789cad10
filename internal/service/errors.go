package service

import (
	"github.com/dukerupert/festa/internal/domain"
)

// Catalog selection errors - use domain.EINVALID
var (
	ErrComponentUnavailable = &domain.Error{Code: domain.EINVALID, Message: "This product is not available right now"}
	ErrNotARecipe           = &domain.Error{Code: domain.EINVALID, Message: "Product is not a pre-assembled kit"}
	ErrWrongKind            = &domain.Error{Code: domain.EINVALID, Message: "Product cannot be used here"}
)

// Upload errors
var (
	ErrUnsupportedImage = &domain.Error{Code: domain.EINVALID, Message: "Images must be JPEG, PNG or WebP"}
	ErrImageTooLarge    = &domain.Error{Code: domain.ETOOLARGE, Message: "Image is too large"}
)

// Admin auth errors - use domain.EUNAUTHORIZED
var (
	ErrInvalidCredentials  = &domain.Error{Code: domain.EUNAUTHORIZED, Message: "Invalid email or password"}
	ErrAdminSessionExpired = &domain.Error{Code: domain.EUNAUTHORIZED, Message: "Session expired, please sign in again"}
)

// fail wraps a sentinel with the operation that produced it.
func fail(sentinel *domain.Error, op string) error {
	return domain.WrapError(sentinel, sentinel.Code, op, sentinel.Message)
}
