package fairdraw

import (
	"errors"
	"testing"
)

func TestMatchConfigValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		config  MatchConfig
		wantErr error
	}{
		{
			name:   "Valid",
			config: MatchConfig{NumMin: 1, NumMax: 75, NumbersPerCard: 24},
		},
		{
			name:   "CardFillsRange",
			config: MatchConfig{NumMin: 1, NumMax: 5, NumbersPerCard: 5},
		},
		{
			name:    "MaxEqualsMin",
			config:  MatchConfig{NumMin: 5, NumMax: 5, NumbersPerCard: 1},
			wantErr: ErrRangeOrder,
		},
		{
			name:    "MaxBelowMin",
			config:  MatchConfig{NumMin: 10, NumMax: 5, NumbersPerCard: 1},
			wantErr: ErrRangeOrder,
		},
		{
			name:    "CardLargerThanRange",
			config:  MatchConfig{NumMin: 1, NumMax: 5, NumbersPerCard: 6},
			wantErr: ErrCardTooLarge,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.config.Validate()
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("unexpected error, want: %v, got: %v", tc.wantErr, err)
			}
		})
	}
}
