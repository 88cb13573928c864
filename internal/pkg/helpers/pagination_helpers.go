package helpers

import (
	"strconv"
	"strings"

	"github.com/yigit/collabhub/internal/pkg/apperrors"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ParsePageSize reads a page size query value. Empty means def; values above max are
// clamped; anything that is not a positive integer is rejected.
func ParsePageSize(value string, def, max int) (int, error) {
	if def <= 0 {
		def = DefaultPageSize
	}
	if max < def {
		max = def
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return def, nil
	}

	size, err := strconv.Atoi(value)
	if err != nil || size < 1 {
		return 0, apperrors.NewInvalidStateError("limit must be a positive integer")
	}
	if size > max {
		size = max
	}
	return size, nil
}
