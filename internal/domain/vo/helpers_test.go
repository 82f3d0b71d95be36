package vo_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

var reg = vo.DefaultRegistries()

// codesOf extracts the codes of a validation failure, in order.
func codesOf(t *testing.T, err error) []vo.Code {
	t.Helper()
	var vr *vo.ValidationResult
	require.True(t, errors.As(err, &vr), "expected *vo.ValidationResult, got %v", err)
	out := make([]vo.Code, 0, len(vr.Errors()))
	for _, e := range vr.Errors() {
		out = append(out, e.Code)
	}
	return out
}
