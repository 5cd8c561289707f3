package webhook

import "testing"

func TestVerifySignatureRoundTrip(t *testing.T) {
	payload := []byte(`{"payment_id":"abc","status":"success"}`)
	secret := "webhook_secret"

	sig := GenerateSignature(payload, secret)
	if sig == "" {
		t.Fatal("expected non-empty signature")
	}

	if !VerifySignature(payload, sig, secret) {
		t.Fatal("expected signature to verify")
	}
}

func TestVerifySignatureRejectsTamperedPayload(t *testing.T) {
	payload := []byte(`{"payment_id":"abc","status":"success"}`)
	secret := "webhook_secret"
	sig := GenerateSignature(payload, secret)

	tampered := []byte(`{"payment_id":"abc","status":"failed"}`)
	if VerifySignature(tampered, sig, secret) {
		t.Fatal("tampered payload must not verify")
	}
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	payload := []byte(`{"payment_id":"abc"}`)
	sig := GenerateSignature(payload, "secret_a")

	if VerifySignature(payload, sig, "secret_b") {
		t.Fatal("signature from another secret must not verify")
	}
}

func TestVerifySignatureEmptyInputs(t *testing.T) {
	payload := []byte("body")

	if VerifySignature(payload, "", "secret") {
		t.Fatal("empty signature must not verify")
	}
	if VerifySignature(payload, GenerateSignature(payload, "secret"), "") {
		t.Fatal("empty secret must not verify")
	}
	if VerifySignature(payload, "not-hex!", "secret") {
		t.Fatal("malformed signature must not verify")
	}
}
