package verify

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/exp/slog"

	"go-bingohall/internal/fairdraw"
	"go-bingohall/internal/lib/timeutil"
)

func TestVerifySignatureHandler(t *testing.T) {
	const (
		secret  = "test-secret"
		matchID = "3b6f1a2c-9d8e-4f0a-b1c2-d3e4f5a6b7c8"
	)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := time.Date(2025, 3, 14, 15, 9, 26, 535000000, time.UTC)

	cases := []struct {
		name       string
		body       SignatureRequest
		wantStatus int
		wantValid  bool
	}{
		{
			name: "ValidZeroNumber",
			body: SignatureRequest{
				MatchID:   matchID,
				DrawIndex: 1,
				Number:    0,
				Timestamp: timeutil.ISO8601(ts),
				Signature: fairdraw.SignDraw(matchID, 1, 0, ts, secret),
			},
			wantStatus: http.StatusOK,
			wantValid:  true,
		},
		{
			name: "ValidPositiveNumber",
			body: SignatureRequest{
				MatchID:   matchID,
				DrawIndex: 7,
				Number:    42,
				Timestamp: timeutil.ISO8601(ts),
				Signature: fairdraw.SignDraw(matchID, 7, 42, ts, secret),
			},
			wantStatus: http.StatusOK,
			wantValid:  true,
		},
		{
			name: "TamperedNumber",
			body: SignatureRequest{
				MatchID:   matchID,
				DrawIndex: 1,
				Number:    1,
				Timestamp: timeutil.ISO8601(ts),
				Signature: fairdraw.SignDraw(matchID, 1, 0, ts, secret),
			},
			wantStatus: http.StatusOK,
			wantValid:  false,
		},
		{
			name: "MalformedTimestamp",
			body: SignatureRequest{
				MatchID:   matchID,
				DrawIndex: 1,
				Number:    0,
				Timestamp: "2025-03-14T15:09:26Z",
				Signature: fairdraw.SignDraw(matchID, 1, 0, ts, secret),
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	handler := NewVerifySignature(log, secret)

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			payload, err := json.Marshal(tc.body)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			req := httptest.NewRequest(http.MethodPost, "/draws/verify-signature", bytes.NewReader(payload))
			rec := httptest.NewRecorder()

			handler(rec, req)

			var got struct {
				Status int    `json:"status"`
				Error  string `json:"error"`
				Valid  bool   `json:"valid"`
			}

			if err = json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.Status != tc.wantStatus {
				t.Fatalf("unexpected status, want: %d, got: %d (%s)", tc.wantStatus, got.Status, got.Error)
			}

			if got.Status == http.StatusOK && got.Valid != tc.wantValid {
				t.Errorf("unexpected verdict, want valid=%v, got valid=%v", tc.wantValid, got.Valid)
			}
		})
	}
}
