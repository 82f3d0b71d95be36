package vo_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

func TestValidationResult_EmptyIsValid(t *testing.T) {
	var r vo.ValidationResult
	assert.True(t, r.Valid())
	assert.NoError(t, r.Err())
	assert.Empty(t, r.Errors())
}

func TestValidationResult_KeepsOrder(t *testing.T) {
	var r vo.ValidationResult
	r.Add("email", vo.CodeInvalidEmail, "bad email")
	r.Add("phone", vo.CodeInvalidPhone, "bad phone")

	var other vo.ValidationResult
	other.Add("address", vo.CodeTooLong, "too long")
	r.Merge(other)

	require.False(t, r.Valid())
	errs := r.Errors()
	require.Len(t, errs, 3)
	assert.Equal(t, "email", errs[0].Field)
	assert.Equal(t, "phone", errs[1].Field)
	assert.Equal(t, "address", errs[2].Field)
	assert.True(t, r.Has(vo.CodeTooLong))
	assert.False(t, r.Has(vo.CodeEmpty))
}

func TestValidationResult_ErrIsDetached(t *testing.T) {
	var r vo.ValidationResult
	r.Add("flightNumber", vo.CodeEmpty, "flight number cannot be empty")
	err := r.Err()

	r.Add("flightNumber", vo.CodeInvalidFormat, "later")

	var vr *vo.ValidationResult
	require.True(t, errors.As(err, &vr))
	assert.Len(t, vr.Errors(), 1)
	assert.Equal(t, "validation failed: flightNumber: flight number cannot be empty (EMPTY)", err.Error())
}
