package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(secret, orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerify_ValidSignature(t *testing.T) {
	v := NewVerifier("test-secret")
	sig := sign("test-secret", "order_123", "pay_456")
	if !v.Verify("order_123", "pay_456", sig) {
		t.Fatal("expected valid signature to verify")
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	v := NewVerifier("test-secret")
	sig := sign("test-secret", "order_123", "pay_456")
	tampered := "0" + sig[1:]
	if tampered == sig {
		tampered = "1" + sig[1:]
	}
	if v.Verify("order_123", "pay_456", tampered) {
		t.Fatal("tampered signature must not verify")
	}
}

func TestVerify_WrongReferences(t *testing.T) {
	v := NewVerifier("test-secret")
	sig := sign("test-secret", "order_123", "pay_456")
	if v.Verify("order_999", "pay_456", sig) {
		t.Fatal("signature must be bound to the order ref")
	}
	if v.Verify("order_123", "pay_999", sig) {
		t.Fatal("signature must be bound to the payment ref")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	v := NewVerifier("other-secret")
	sig := sign("test-secret", "order_123", "pay_456")
	if v.Verify("order_123", "pay_456", sig) {
		t.Fatal("signature keyed by another secret must not verify")
	}
}

func TestVerify_EmptySignature(t *testing.T) {
	v := NewVerifier("test-secret")
	if v.Verify("order_123", "pay_456", "") {
		t.Fatal("empty signature must not verify")
	}
}
