package token

import (
	"errors"
	"strings"
	"testing"
)

type payload struct {
	GameID string `json:"g"`
	Score  int    `json:"s"`
}

func TestSignVerifyRoundTrip(t *testing.T) {
	s := NewSigner([]byte("test-secret"))
	tok, err := s.Sign(payload{GameID: "abc", Score: 3})
	if err != nil {
		t.Fatal(err)
	}
	var got payload
	if err := s.Verify(tok, &got); err != nil {
		t.Fatal(err)
	}
	if got.GameID != "abc" || got.Score != 3 {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	s := NewSigner([]byte("test-secret"))
	tok, _ := s.Sign(payload{GameID: "abc", Score: 1})
	forged, _ := s.Sign(payload{GameID: "abc", Score: 5})

	encodedPayload, _, _ := strings.Cut(forged, ".")
	_, sig, _ := strings.Cut(tok, ".")

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"swapped payload", encodedPayload + "." + sig, ErrInvalidSignature},
		{"other key", mustSign(t, NewSigner([]byte("other")), payload{GameID: "abc"}), ErrInvalidSignature},
		{"no separator", "abcdef", ErrMalformed},
		{"bad base64", "!!!." + sig, ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			if err := s.Verify(tt.token, &p); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestGeneratedSecretsDiffer(t *testing.T) {
	a, b := NewSigner(nil), NewSigner(nil)
	tok := mustSign(t, a, payload{GameID: "x"})
	var p payload
	if err := b.Verify(tok, &p); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected tokens from another random key to fail, got %v", err)
	}
}

func mustSign(t *testing.T, s *Signer, p payload) string {
	t.Helper()
	tok, err := s.Sign(p)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}
