package storeerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"record not found", gorm.ErrRecordNotFound, KindNotFound},
		{"wrapped record not found", fmt.Errorf("load post: %w", gorm.ErrRecordNotFound), KindNotFound},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, KindConflict},
		{"pg undefined table", &pgconn.PgError{Code: "42P01", Message: `relation "post_stats" does not exist`}, KindSchemaMissing},
		{"pg undefined column", &pgconn.PgError{Code: "42703", Message: `column "trend_score" does not exist`}, KindSchemaMissing},
		{"pg invalid schema", &pgconn.PgError{Code: "3F000", Message: "invalid schema name"}, KindSchemaMissing},
		{"pg unique violation", &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}, KindConflict},
		{"pg permission denied stays unknown", &pgconn.PgError{Code: "42501", Message: "permission denied for table posts"}, KindUnknown},
		{"message-only relation missing", errors.New(`ERROR: relation "post_stats" does not exist (SQLSTATE 42P01)`), KindSchemaMissing},
		{"message-only column missing", errors.New(`ERROR: column "trend_score" does not exist`), KindSchemaMissing},
		{"sqlite missing table", errors.New("no such table: post_stats"), KindSchemaMissing},
		{"sqlite missing column", errors.New("no such column: trend_score"), KindSchemaMissing},
		{"sqlite unique constraint", errors.New("UNIQUE constraint failed: reactions.post_id, reactions.user_id"), KindConflict},
		{"network error stays unknown", errors.New("dial tcp 10.0.0.1:5432: connect: connection refused"), KindUnknown},
		{"context cancelled stays unknown", errors.New("context canceled"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestClassify_WrappedPgError(t *testing.T) {
	err := fmt.Errorf("list stats: %w", &pgconn.PgError{Code: "42P01"})
	assert.True(t, IsSchemaMissing(err))
	assert.False(t, IsConflict(err))
	assert.False(t, IsNotFound(err))
}
