package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexTimeAcceptsCommonFormats(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", `"2026-02-01T08:00:00Z"`, time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)},
		{"rfc3339 offset", `"2026-02-01T10:00:00+02:00"`, time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)},
		{"no zone", `"2026-02-01T08:00:00"`, time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)},
		{"space separated", `"2026-02-01 08:00:00"`, time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)},
		{"date only", `"2026-02-01"`, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"epoch seconds", `1769904000`, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"epoch millis", `1769904000000`, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ft FlexTime
			require.NoError(t, json.Unmarshal([]byte(tc.input), &ft))
			assert.True(t, ft.Equal(tc.want), "got %s want %s", ft.Time, tc.want)
		})
	}
}

func TestFlexTimeRejectsGarbage(t *testing.T) {
	for _, input := range []string{`"yesterday"`, `"2026-13-40"`, `"1.5"`, `true`} {
		var ft FlexTime
		assert.Error(t, json.Unmarshal([]byte(input), &ft), "input %s", input)
	}
}

func TestFlexTimeNullIsZero(t *testing.T) {
	var ft FlexTime
	require.NoError(t, json.Unmarshal([]byte(`null`), &ft))
	assert.True(t, ft.IsZero())
}
