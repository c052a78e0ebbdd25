package checkout

import (
	"context"
	"strings"
	"testing"
)

func TestGenerateOrderNumberFormat(t *testing.T) {
	f := newFixture()

	number, err := f.svc.generateOrderNumber(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(number, "SHP-") {
		t.Fatalf("expected SHP- prefix, got %q", number)
	}
	suffix := strings.TrimPrefix(number, "SHP-")
	if len(suffix) != 8 {
		t.Fatalf("expected 8-char suffix, got %q", suffix)
	}
	for _, r := range suffix {
		if !strings.ContainsRune(numberAlphabet, r) {
			t.Fatalf("suffix %q contains %q outside the alphabet", suffix, r)
		}
	}
}

func TestGenerateOrderNumberGivesUpOnSaturation(t *testing.T) {
	f := newFixture()
	f.orders.numberExists = true

	if _, err := f.svc.generateOrderNumber(context.Background()); err == nil {
		t.Fatalf("expected an error when every number collides")
	}
}

func TestGeneratedNumbersAreDistinct(t *testing.T) {
	f := newFixture()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		number, err := f.svc.generateOrderNumber(context.Background())
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if seen[number] {
			t.Fatalf("duplicate number %q", number)
		}
		seen[number] = true
	}
}
