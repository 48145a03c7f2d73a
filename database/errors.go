package database

import (
	"database/sql"
	"strings"

	"github.com/lib/pq"

	"github.com/reconlabs/recon/internal/apierror"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// classifyError maps a database error onto the typed errors callers branch on.
func classifyError(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return apierror.NewAPIError(apierror.ErrNotFound, notFoundMsg, err)
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == uniqueViolation {
			return apierror.NewAPIError(apierror.ErrConflict, pqErr.Message, err)
		}
		if strings.Contains(pqErr.Message, "immutable") {
			return apierror.NewAPIError(apierror.ErrImmutable, pqErr.Message, err)
		}
	}
	return apierror.NewAPIError(apierror.ErrInternalServer, err.Error(), err)
}

// isUniqueViolation reports whether err is a unique constraint breach.
func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == uniqueViolation
}
