package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verifier validates a client-reported payment completion against the
// gateway signature before any financial record is trusted.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify recomputes the HMAC-SHA256 over "orderRef|paymentRef" and compares
// it to the supplied hex signature in constant time. Pure: no I/O.
func (v *Verifier) Verify(orderRef, paymentRef, suppliedSignature string) bool {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderRef + "|" + paymentRef))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(suppliedSignature))
}
