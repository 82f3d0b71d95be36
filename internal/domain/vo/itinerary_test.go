package vo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

func TestParseRoute(t *testing.T) {
	for in, want := range map[string]string{
		"Hanoi(HAN)-Ho Chi Minh City(SGN)": "Hanoi(HAN)-Ho Chi Minh City(SGN)",
		" Da Nang (dad)-Hue(HUI) ":         "Da Nang(DAD)-Hue(HUI)",
	} {
		r, err := vo.ParseRoute(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, r.String(), in)

		again, err := vo.ParseRoute(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, again)
	}
}

func TestParseRoute_Errors(t *testing.T) {
	cases := []struct {
		in   string
		want []vo.Code
	}{
		{"", []vo.Code{vo.CodeEmpty}},
		{"Hanoi-Saigon", []vo.Code{vo.CodeInvalidFormat}},
		{"Hanoi(HAN)", []vo.Code{vo.CodeInvalidFormat}},
		{"Hanoi(HAN)-Hanoi(HAN)", []vo.Code{vo.CodeSameOriginDestination}},
		{"Hanoi(HA)-Da Nang(D1)", []vo.Code{vo.CodeInvalidOriginCode, vo.CodeInvalidDestinationCode}},
		{"123(HAN)-Da Nang(DAD)", []vo.Code{vo.CodeInvalidOriginName}},
	}
	for _, tc := range cases {
		_, err := vo.ParseRoute(tc.in)
		require.Error(t, err, tc.in)
		assert.Equal(t, tc.want, codesOf(t, err), tc.in)
	}
}

func TestNewRoute_ReportsEveryField(t *testing.T) {
	_, err := vo.NewRoute("", "HA", "", "SG")
	assert.Equal(t, []vo.Code{
		vo.CodeInvalidOriginName,
		vo.CodeInvalidOriginCode,
		vo.CodeInvalidDestinationName,
		vo.CodeInvalidDestinationCode,
	}, codesOf(t, err))

	r, err := vo.NewRoute("Hanoi", "han", "Singapore", "sin")
	require.NoError(t, err)
	assert.Equal(t, "HAN", r.OriginCode())
	assert.Equal(t, "Singapore", r.Destination())
}

func TestParseSchedule(t *testing.T) {
	s, err := vo.ParseSchedule("2025-06-01 08:00|2025-06-01 10:15")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01 08:00|2025-06-01 10:15", s.String())
	assert.Equal(t, 2*time.Hour+15*time.Minute, s.Duration())

	again, err := vo.ParseSchedule(s.String())
	require.NoError(t, err)
	assert.True(t, s.Equal(again))
}

func TestParseSchedule_Errors(t *testing.T) {
	cases := []struct {
		in   string
		want []vo.Code
	}{
		{"", []vo.Code{vo.CodeEmpty}},
		{"2025-06-01 08:00", []vo.Code{vo.CodeInvalidFormat}},
		{"2025-06-01 10:00|2025-06-01 08:00", []vo.Code{vo.CodeArrivalBeforeDeparture}},
		{"2025-06-01 08:00|2025-06-01 08:00", []vo.Code{vo.CodeArrivalBeforeDeparture}},
		{"2025-13-01 08:00|2025-06-01 25:00", []vo.Code{vo.CodeInvalidDeparture, vo.CodeInvalidArrival}},
	}
	for _, tc := range cases {
		_, err := vo.ParseSchedule(tc.in)
		require.Error(t, err, tc.in)
		assert.Equal(t, tc.want, codesOf(t, err), tc.in)
	}
}

func TestNewSchedule_TruncatesToMinuteUTC(t *testing.T) {
	ict := time.FixedZone("ICT", 7*3600)
	dep := time.Date(2025, 6, 1, 15, 0, 42, 0, ict)
	s, err := vo.NewSchedule(dep, dep.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01 08:00|2025-06-01 09:30", s.String())

	_, err = vo.NewSchedule(time.Time{}, time.Time{})
	assert.Equal(t, []vo.Code{vo.CodeInvalidDeparture, vo.CodeInvalidArrival}, codesOf(t, err))
}

func TestSchedule_Overlaps(t *testing.T) {
	parse := func(s string) vo.Schedule {
		out, err := vo.ParseSchedule(s)
		require.NoError(t, err)
		return out
	}
	morning := parse("2025-06-01 08:00|2025-06-01 10:00")

	assert.True(t, morning.Overlaps(parse("2025-06-01 09:00|2025-06-01 11:00")))
	assert.True(t, morning.Overlaps(parse("2025-06-01 07:00|2025-06-01 12:00")))
	assert.False(t, morning.Overlaps(parse("2025-06-01 10:00|2025-06-01 12:00")))
	assert.False(t, morning.Overlaps(parse("2025-06-02 08:00|2025-06-02 10:00")))
}
