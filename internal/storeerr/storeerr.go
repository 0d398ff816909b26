// Package storeerr classifies errors returned by the backing store into a
// closed set of kinds the services act on. Reads recover from KindSchemaMissing
// by falling back to raw-row counting; writes reject it as feature-unavailable;
// everything unknown propagates unchanged.
package storeerr

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Kind is the classification of a store error.
type Kind int

const (
	// KindUnknown covers transport, permission and any other failure the
	// services must not interpret.
	KindUnknown Kind = iota
	// KindSchemaMissing means a relation or column the query expects does not
	// exist in the current deployment (fresh install, stale view).
	KindSchemaMissing
	// KindNotFound means the query matched no row.
	KindNotFound
	// KindConflict means a uniqueness constraint rejected a duplicate row.
	KindConflict
)

// schemaMissingCodes is the closed set of PostgreSQL SQLSTATE codes treated
// as schema-missing. Review alongside the backing store's error contract
// before extending.
var schemaMissingCodes = map[string]struct{}{
	"42P01": {}, // undefined_table
	"42703": {}, // undefined_column
	"3F000": {}, // invalid_schema_name
}

// conflictCodes is the closed set of SQLSTATE codes treated as a duplicate-row
// constraint violation.
var conflictCodes = map[string]struct{}{
	"23505": {}, // unique_violation
}

// schemaMissingSignatures covers drivers that surface schema errors as plain
// messages (sqlite, pooled proxies that strip SQLSTATE).
var schemaMissingSignatures = []string{
	"no such table",
	"no such column",
	"relation \"",
	"column \"",
}

var conflictSignatures = []string{
	"duplicate key",
	"unique constraint",
	"23505",
}

// Classify maps a store error onto a Kind. nil classifies as KindUnknown;
// callers are expected to classify only non-nil errors.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return KindNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return KindConflict
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if _, ok := schemaMissingCodes[pgErr.Code]; ok {
			return KindSchemaMissing
		}
		if _, ok := conflictCodes[pgErr.Code]; ok {
			return KindConflict
		}
		return KindUnknown
	}

	msg := strings.ToLower(err.Error())
	for _, sig := range conflictSignatures {
		if strings.Contains(msg, sig) {
			return KindConflict
		}
	}
	for _, sig := range schemaMissingSignatures {
		if strings.Contains(msg, sig) && strings.Contains(msg, "does not exist") {
			return KindSchemaMissing
		}
		if (sig == "no such table" || sig == "no such column") && strings.Contains(msg, sig) {
			return KindSchemaMissing
		}
	}

	return KindUnknown
}

// IsSchemaMissing reports whether err classifies as KindSchemaMissing.
func IsSchemaMissing(err error) bool {
	return Classify(err) == KindSchemaMissing
}

// IsNotFound reports whether err classifies as KindNotFound.
func IsNotFound(err error) bool {
	return Classify(err) == KindNotFound
}

// IsConflict reports whether err classifies as KindConflict.
func IsConflict(err error) bool {
	return Classify(err) == KindConflict
}
