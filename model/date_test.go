package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-10")
	require.NoError(t, err)
	require.Equal(t, NewDate(2025, time.June, 10), d)
	require.Equal(t, "2025-06-10", d.String())

	for _, bad := range []string{"", "2025-6-10", "10/06/2025", "2025-02-30", "2025-06-10T00:00:00Z"} {
		_, err := ParseDate(bad)
		require.Error(t, err, bad)
	}
}

func TestDateOf_DropsClock(t *testing.T) {
	d := DateOf(time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC))
	require.True(t, d.Equal(NewDate(2025, 6, 10)))
}

func TestNights(t *testing.T) {
	require.Equal(t, 3, Nights(NewDate(2025, 6, 10), NewDate(2025, 6, 13)))
	require.Equal(t, 1, Nights(NewDate(2025, 2, 28), NewDate(2025, 3, 1)))
	require.Equal(t, 0, Nights(NewDate(2025, 6, 10), NewDate(2025, 6, 10)))
	require.Equal(t, -2, Nights(NewDate(2025, 6, 12), NewDate(2025, 6, 10)))
	require.Equal(t, "2025-03-01", NewDate(2025, 2, 28).AddDays(1).String())
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		In  Date  `json:"in"`
		Out *Date `json:"out,omitempty"`
	}
	b, err := json.Marshal(payload{In: NewDate(2025, 6, 10)})
	require.NoError(t, err)
	require.JSONEq(t, `{"in":"2025-06-10"}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"in":"2025-06-11","out":"2025-06-12"}`), &p))
	require.Equal(t, "2025-06-11", p.In.String())
	require.Equal(t, "2025-06-12", p.Out.String())

	require.Error(t, json.Unmarshal([]byte(`{"in":"June 11"}`), &p))

	b, err = json.Marshal(payload{})
	require.NoError(t, err)
	require.JSONEq(t, `{"in":null}`, string(b))
}

func TestParseBookingStatus(t *testing.T) {
	st, ok := ParseBookingStatus("APPROVED")
	require.True(t, ok)
	require.Equal(t, BookingApproved, st)
	_, ok = ParseBookingStatus("approved")
	require.False(t, ok)
}
