package validation

import (
	"strconv"
	"strings"

	apperrors "github.com/anime-shed/card-inspector-go/internal/errors"
)

// ParseSeed reads an optional decimal RNG seed. Empty input yields nil.
func ParseSeed(raw string) (*uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	seed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, apperrors.NewValidationError("seed must be an unsigned integer", err).WithDetails(raw)
	}
	return &seed, nil
}

// ParseLimit reads an optional page size, returning def when raw is empty
func ParseLimit(raw string, def, maxLimit int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, apperrors.NewValidationError("limit must be a positive integer", err).WithDetails(raw)
	}
	if limit > maxLimit {
		return 0, apperrors.NewValidationError("limit too large", nil).WithDetails(strconv.Itoa(maxLimit))
	}
	return limit, nil
}
