package timerange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		start     string
		end       string
		wantStart string
		wantEnd   string
		expectOK  bool
	}{
		{
			name:      "Both bounds set",
			start:     "2025-06-01T00:00:00Z",
			end:       "2025-06-30T23:59:59Z",
			wantStart: "2025-06-01T00:00:00Z",
			wantEnd:   "2025-06-30T23:59:59Z",
			expectOK:  true,
		},
		{
			name:     "Open window",
			start:    "",
			end:      "",
			expectOK: true,
		},
		{
			name:      "Only start",
			start:     "2025-06-01T00:00:00Z",
			wantStart: "2025-06-01T00:00:00Z",
			expectOK:  true,
		},
		{
			name:     "Only end",
			end:      "2025-06-30T00:00:00Z",
			wantEnd:  "2025-06-30T00:00:00Z",
			expectOK: true,
		},
		{
			name:     "Malformed start",
			start:    "not-a-date",
			end:      "2025-06-30T00:00:00Z",
			expectOK: false,
		},
		{
			name:     "Malformed end",
			start:    "2025-06-01T00:00:00Z",
			end:      "tomorrow",
			expectOK: false,
		},
		{
			name:     "Date without time component",
			start:    "2025-06-01",
			expectOK: false,
		},
		{
			name:     "Inverted window",
			start:    "2025-06-30T00:00:00Z",
			end:      "2025-06-01T00:00:00Z",
			expectOK: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, ok := Parse(tc.start, tc.end)
			assert.Equal(t, tc.expectOK, ok)
			if !tc.expectOK {
				return
			}
			if tc.wantStart == "" {
				assert.Nil(t, r.Start)
			} else {
				require.NotNil(t, r.Start)
				want, _ := time.Parse(time.RFC3339, tc.wantStart)
				assert.True(t, want.Equal(*r.Start))
			}
			if tc.wantEnd == "" {
				assert.Nil(t, r.End)
			} else {
				require.NotNil(t, r.End)
				want, _ := time.Parse(time.RFC3339, tc.wantEnd)
				assert.True(t, want.Equal(*r.End))
			}
		})
	}
}
