package timeutil

import (
	"testing"
	"time"
)

func TestISO8601(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "UTC",
			in:   time.Date(2025, 3, 14, 15, 9, 26, 535000000, time.UTC),
			want: "2025-03-14T15:09:26.535Z",
		},
		{
			name: "NonUTCZone",
			in:   time.Date(2025, 3, 14, 18, 9, 26, 0, time.FixedZone("UTC+3", 3*60*60)),
			want: "2025-03-14T15:09:26.000Z",
		},
		{
			name: "TruncatesSubMillisecond",
			in:   time.Date(2025, 1, 1, 0, 0, 0, 1234567, time.UTC),
			want: "2025-01-01T00:00:00.001Z",
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := ISO8601(tc.in); got != tc.want {
				t.Errorf("unexpected result, want: %s, got: %s", tc.want, got)
			}
		})
	}
}

func TestParseISO8601(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "RoundTrips", in: "2025-03-14T15:09:26.535Z"},
		{name: "MidnightZeroMillis", in: "2025-01-01T00:00:00.000Z"},
		{name: "RejectsOffsetZone", in: "2025-03-14T18:09:26.535+03:00", wantErr: true},
		{name: "RejectsMissingMillis", in: "2025-03-14T15:09:26Z", wantErr: true},
		{name: "RejectsGarbage", in: "not-a-timestamp", wantErr: true},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			parsed, err := ParseISO8601(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected parse error for %q", tc.in)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := ISO8601(parsed); got != tc.in {
				t.Errorf("round trip mismatch, want: %s, got: %s", tc.in, got)
			}
		})
	}
}
