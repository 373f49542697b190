package pgerr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	exclusion := fmt.Errorf("insert: %w", &pq.Error{Code: CodeExclusionViolation})
	unique := &pq.Error{Code: CodeUniqueViolation}
	serialization := &pq.Error{Code: CodeSerializationFailure}
	connection := &pq.Error{Code: "08006"}

	assert.True(t, IsExclusionViolation(exclusion))
	assert.False(t, IsExclusionViolation(unique))
	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsSerializationFailure(serialization))

	assert.True(t, IsTransient(connection))
	assert.True(t, IsTransient(fmt.Errorf("query: %w", context.DeadlineExceeded)))
	assert.False(t, IsTransient(unique))
	assert.False(t, IsTransient(errors.New("syntax error")))
	assert.False(t, IsTransient(nil))
	assert.Equal(t, "", Code(errors.New("plain")))
}
