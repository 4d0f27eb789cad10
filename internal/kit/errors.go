package kit

import (
	"errors"

	"github.com/dukerupert/festa/internal/domain"
)

// Rejections returned by Builder. Each returned error wraps one of these, so
// callers test with errors.Is and show domain.ErrorMessage to the shopper.
var (
	ErrCapacityExceeded = &domain.Error{Code: domain.ECONFLICT, Message: "Kit capacity exceeded"}
	ErrHeightExceeded   = &domain.Error{Code: domain.ECONFLICT, Message: "Item is taller than the container"}
	ErrInvalidSelection = &domain.Error{Code: domain.EINVALID, Message: "Invalid selection"}
	ErrItemNotInKit     = &domain.Error{Code: domain.ENOTFOUND, Message: "Item is not in the kit"}
)

// Reason names a rejection for metrics and logs.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity"
	case errors.Is(err, ErrHeightExceeded):
		return "height"
	case errors.Is(err, ErrInvalidSelection):
		return "invalid_selection"
	case errors.Is(err, ErrItemNotInKit):
		return "not_in_kit"
	}
	return "other"
}
