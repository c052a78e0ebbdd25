package checkout

import (
	"context"
	"crypto/rand"
	"fmt"
)

const numberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateOrderNumber builds "<prefix>-<8 chars>" and checks it against
// existing orders, regenerating on collision. The unique index on the
// orders table is the final arbiter for concurrent requests.
func (s *Service) generateOrderNumber(ctx context.Context) (string, error) {
	for i := 0; i < 10; i++ {
		suffix, err := randomSuffix(8)
		if err != nil {
			return "", err
		}
		number := s.numberPrefix + "-" + suffix
		exists, err := s.orders.NumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", fmt.Errorf("order number space exhausted")
}

func randomSuffix(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = numberAlphabet[int(b[i])%len(numberAlphabet)]
	}
	return string(b), nil
}
