package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"eps-portal/internal/apperrors"

	"github.com/google/uuid"
)

// QueryString returns the trimmed value of key, or nil when it is absent or
// empty.
func QueryString(q url.Values, key string) *string {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

// QueryInt64 parses an optional integer parameter.
// Example:
//
//	?aoi_id=12   → 12
//	?aoi_id=     → nil
//	?aoi_id=abc  → ErrValidation
func QueryInt64(q url.Values, key string) (*int64, error) {
	v := QueryString(q, key)
	if v == nil {
		return nil, nil
	}
	n, err := strconv.ParseInt(*v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer, got %q", apperrors.ErrValidation, key, *v)
	}
	return &n, nil
}

// QueryDate parses an optional YYYY-MM-DD parameter. A full RFC3339
// timestamp is accepted and truncated to its date.
func QueryDate(q url.Values, key string) (*string, error) {
	v := QueryString(q, key)
	if v == nil {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", *v); err == nil {
		d := t.Format("2006-01-02")
		return &d, nil
	}
	if t, err := time.Parse(time.RFC3339, *v); err == nil {
		d := t.Format("2006-01-02")
		return &d, nil
	}
	return nil, fmt.Errorf("%w: %s must be a date (YYYY-MM-DD), got %q", apperrors.ErrValidation, key, *v)
}

// QueryUUID parses an optional UUID parameter.
func QueryUUID(q url.Values, key string) (*string, error) {
	v := QueryString(q, key)
	if v == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a UUID, got %q", apperrors.ErrValidation, key, *v)
	}
	s := id.String()
	return &s, nil
}

// RequiredInt64 is QueryInt64 for a mandatory parameter.
func RequiredInt64(q url.Values, key string) (int64, error) {
	v, err := QueryInt64(q, key)
	return required(v, err, key)
}

// RequiredUUID is QueryUUID for a mandatory parameter.
func RequiredUUID(q url.Values, key string) (string, error) {
	v, err := QueryUUID(q, key)
	return required(v, err, key)
}

// RequiredString is QueryString for a mandatory parameter.
func RequiredString(q url.Values, key string) (string, error) {
	return required(QueryString(q, key), nil, key)
}

func required[T any](v *T, err error, key string) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, fmt.Errorf("%w: query parameter %s is required", apperrors.ErrValidation, key)
	}
	return *v, nil
}
