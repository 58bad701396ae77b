package fairdraw

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go-bingohall/internal/lib/timeutil"
)

// SignDraw binds a draw to its match, sequence position and wall-clock time:
// HMAC-SHA256 over "matchID-drawIndex-number-ISO8601(timestamp)" keyed by the
// server secret, hex encoded.
func SignDraw(matchID string, drawIndex, number int, timestamp time.Time, serverSecret string) string {
	data := fmt.Sprintf("%s-%d-%d-%s", matchID, drawIndex, number, timeutil.ISO8601(timestamp))

	mac := hmac.New(sha256.New, []byte(serverSecret))
	mac.Write([]byte(data))

	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the signature and compares. Verification is a
// query: a mismatch is reported as false, never as an error.
func VerifySignature(matchID string, drawIndex, number int, timestamp time.Time, signature, serverSecret string) bool {
	expected := SignDraw(matchID, drawIndex, number, timestamp, serverSecret)

	return hmac.Equal([]byte(expected), []byte(signature))
}
