package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "attendance_one_per_day"}

	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "attendance_one_per_day"))
	assert.False(t, IsUniqueViolation(err, "students_lrn_key"))
}

func TestIsUniqueViolationWrapped(t *testing.T) {
	err := fmt.Errorf("insert attendance: %w", &pq.Error{Code: "23505"})

	assert.True(t, IsUniqueViolation(err, ""))
}

func TestIsUniqueViolationOtherErrors(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil, ""))
	assert.False(t, IsUniqueViolation(errors.New("boom"), ""))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}, ""))
}

func TestIsSchemaMissing(t *testing.T) {
	assert.True(t, IsSchemaMissing(&pq.Error{Code: "42P01"}))
	assert.True(t, IsSchemaMissing(&pq.Error{Code: "42883"}))
	assert.True(t, IsSchemaMissing(fmt.Errorf("probe students: %w", &pq.Error{Code: "42P01"})))
}

func TestIsSchemaMissingIgnoresEmptyResults(t *testing.T) {
	assert.False(t, IsSchemaMissing(sql.ErrNoRows))
	assert.False(t, IsSchemaMissing(nil))
	assert.False(t, IsSchemaMissing(&pq.Error{Code: "23505"}))
}
