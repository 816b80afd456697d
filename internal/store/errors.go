package store

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"eps-portal/internal/apperrors"

	"github.com/uptrace/bun/driver/pgdriver"
)

// classify maps driver errors onto the error taxonomy. Anything not
// recognised is returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		code := pgErr.Field('C')
		msg := pgErr.Field('M')
		switch {
		case pgErr.IntegrityViolation(), strings.HasPrefix(code, "22"):
			return fmt.Errorf("%w: %s", apperrors.ErrConstraintViolation, msg)
		case strings.HasPrefix(code, "08"), strings.HasPrefix(code, "57P0"):
			return fmt.Errorf("%w: %s", apperrors.ErrStoreUnavailable, msg)
		}
		return err
	}

	var netErr net.Error
	switch {
	case errors.As(err, &netErr),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	return err
}
