package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kindnest/kindnest-api/pkg/apperror"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation    = "23505"
	pgIntegrityClass     = "23"
	pgInvalidTextRepCode = "22P02"
)

// Translate maps a driver/ORM error onto the application failure taxonomy:
// missing rows become 404, uniqueness violations 409, other integrity and
// malformed-value failures 422, everything else 500. The 422/409 messages
// echo the driver's constraint message.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("resource not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation:
			return apperror.Conflict(pgErr.Message)
		case strings.HasPrefix(pgErr.Code, pgIntegrityClass), pgErr.Code == pgInvalidTextRepCode:
			return apperror.Unprocessable(pgErr.Message)
		}
		return apperror.New(500, "", err)
	}

	// The sqlite driver used in tests reports constraint failures as plain
	// message strings rather than typed errors.
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint") {
		return apperror.Conflict(msg)
	}
	if strings.Contains(msg, "constraint failed") {
		return apperror.Unprocessable(msg)
	}

	return apperror.New(500, "", err)
}
