package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature validates the HMAC-SHA256 signature sent by the payment
// provider alongside the webhook body.
func VerifySignature(payload []byte, signature string, secretKey string) bool {
	if secretKey == "" || signature == "" {
		return false
	}

	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write(payload)
	expected := h.Sum(nil)

	given, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	return hmac.Equal(given, expected)
}

// GenerateSignature creates an HMAC-SHA256 signature for testing
func GenerateSignature(payload []byte, secretKey string) string {
	if secretKey == "" {
		return ""
	}

	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
