package repositories

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL, на которые опирается маппинг конфликтов.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// mapConstraintError возвращает доменную ошибку для нарушенного constraint,
// если оно есть в таблице, иначе исходную ошибку.
func mapConstraintError(err error, byConstraint map[string]error) error {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return err
	}
	switch pqErr.Code {
	case pqUniqueViolation, pqForeignKeyViolation, pqCheckViolation:
		if mapped, ok := byConstraint[pqErr.Constraint]; ok {
			return mapped
		}
	}
	return err
}
