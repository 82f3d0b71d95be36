package vo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

func TestParsePassportNumber(t *testing.T) {
	for in, want := range map[string]string{
		"VNM:B1234567":    "VNM:B1234567",
		"vnm:b1234567":    "VNM:B1234567",
		"USA:123456789":   "USA:123456789",
		"GBR : 987654321": "GBR:987654321",
	} {
		p, err := vo.ParsePassportNumber(in, reg.Passports)
		require.NoError(t, err, in)
		assert.Equal(t, want, p.String(), in)

		again, err := vo.ParsePassportNumber(p.String(), reg.Passports)
		require.NoError(t, err)
		assert.Equal(t, p, again)
	}
}

func TestParsePassportNumber_Errors(t *testing.T) {
	cases := map[string]vo.Code{
		"":            vo.CodeEmpty,
		"B1234567":    vo.CodeInvalidFormat,
		"VNM:B1:2":    vo.CodeInvalidFormat,
		"VNM:":        vo.CodeEmpty,
		"XXX:1234567": vo.CodeUnknownIssuingCountry,
		"VNM:1234567": vo.CodeInvalidPassportNumber,
		"VNM:B123":    vo.CodeInvalidPassportNumber,
	}
	for in, want := range cases {
		_, err := vo.ParsePassportNumber(in, reg.Passports)
		require.Error(t, err, in)
		assert.Equal(t, []vo.Code{want}, codesOf(t, err), in)
	}
}

func TestNewPassportNumber(t *testing.T) {
	p, err := vo.NewPassportNumber("sgp", "s1234567d", reg.Passports)
	require.NoError(t, err)
	assert.Equal(t, "SGP", p.Country())
	assert.Equal(t, "S1234567D", p.Number())
}

func TestParseContactInfo(t *testing.T) {
	for in, want := range map[string]string{
		"Alice@Example.com|+84901234567|12 Ly Thuong Kiet, Hanoi": "alice@example.com|+84901234567|12 Ly Thuong Kiet, Hanoi",
		"a@b.co|0901234567|":                                      "a@b.co|0901234567|",
		" bob@mail.vn | 0901234567 | Đà Nẵng ":                    "bob@mail.vn|0901234567|Đà Nẵng",
	} {
		c, err := vo.ParseContactInfo(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, c.String(), in)

		again, err := vo.ParseContactInfo(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, again)
	}
}

func TestParseContactInfo_ReportsEveryField(t *testing.T) {
	_, err := vo.ParseContactInfo("not-an-email|123|<script>")
	assert.Equal(t, []vo.Code{vo.CodeInvalidEmail, vo.CodeInvalidPhone, vo.CodeInvalidAddress}, codesOf(t, err))

	_, err = vo.ParseContactInfo("|+849012345678901234|")
	assert.Equal(t, []vo.Code{vo.CodeEmpty, vo.CodeTooLong}, codesOf(t, err))

	_, err = vo.ParseContactInfo("a@b.co|0901234567")
	assert.Equal(t, []vo.Code{vo.CodeInvalidFormat}, codesOf(t, err))

	_, err = vo.ParseContactInfo("")
	assert.Equal(t, []vo.Code{vo.CodeEmpty}, codesOf(t, err))
}

func TestNewContactInfo(t *testing.T) {
	c, err := vo.NewContactInfo("x@y.com", "0901234567", "")
	require.NoError(t, err)
	assert.Equal(t, "x@y.com", c.Email())
	assert.Empty(t, c.Address())

	_, err = vo.NewContactInfo("x@y.com", "0901234567", "a|b")
	assert.Equal(t, []vo.Code{vo.CodeInvalidAddress}, codesOf(t, err))
}
