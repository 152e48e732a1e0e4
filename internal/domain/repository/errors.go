package repository

import (
	"errors"
	"fmt"

	"counsel_hub/internal/common"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// translate maps driver errors onto the common sentinels, keeping op as
// context for logs.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case common.PgUniqueViolation:
			if pgErr.ConstraintName == slotConstraint {
				return fmt.Errorf("%s: %w", op, common.ErrSlotTaken)
			}
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, common.ErrConflict)
		case common.PgForeignKeyViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, common.ErrNotFound)
		case common.PgCheckViolation, common.PgStringTooLong, common.PgInvalidText:
			return fmt.Errorf("%s: %s: %w", op, pgErr.Message, common.ErrValidation)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
