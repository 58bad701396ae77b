package draw

import (
	"testing"
)

func TestManualRequestValidation(t *testing.T) {
	cases := []struct {
		name    string
		req     ManualRequest
		wantErr bool
	}{
		{
			name: "ZeroNumberAllowed",
			req:  ManualRequest{UserID: "7f9c24e5-2b3a-4d6e-9a1b-8c5d3e2f1a0b", Number: 0},
		},
		{
			name: "PositiveNumber",
			req:  ManualRequest{UserID: "7f9c24e5-2b3a-4d6e-9a1b-8c5d3e2f1a0b", Number: 42},
		},
		{
			name:    "MissingUser",
			req:     ManualRequest{Number: 7},
			wantErr: true,
		},
		{
			name:    "MalformedUser",
			req:     ManualRequest{UserID: "not-a-uuid", Number: 7},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := requestValidator.Struct(tc.req)
			if tc.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
