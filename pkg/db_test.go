package pkg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolationError(t *testing.T) {
	uniqueErr := fmt.Errorf("insert admin: %w", &pgconn.PgError{Code: "23505"})
	fkErr := fmt.Errorf("insert session: %w", &pgconn.PgError{Code: "23503"})

	assert.True(t, IsUniqueViolationError(uniqueErr))
	assert.False(t, IsUniqueViolationError(fkErr))
	assert.False(t, IsUniqueViolationError(errors.New("boom")))

	assert.True(t, IsForeignKeyViolationError(fkErr))
	assert.False(t, IsForeignKeyViolationError(uniqueErr))
}
