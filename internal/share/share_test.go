package share

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRoundTrip(t *testing.T) {
	s, err := NewSigner([]byte("secret"), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	in := map[string]float64{"D": 1e-6, "t": 3600}
	tok, err := s.Sign("diffusion", in)
	if err != nil {
		t.Fatal(err)
	}
	c, err := s.Parse(tok)
	if err != nil {
		t.Fatal(err)
	}
	if c.Formula != "diffusion" {
		t.Errorf("formula: want diffusion, got %s", c.Formula)
	}
	for k, v := range in {
		if c.Inputs[k] != v {
			t.Errorf("%s: want %v, got %v", k, v, c.Inputs[k])
		}
	}
	if c.ExpiresAt == nil {
		t.Error("want an expiry")
	}
}

func TestExpired(t *testing.T) {
	s, _ := NewSigner([]byte("secret"), time.Minute)
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return start }
	tok, err := s.Sign("energy", map[string]float64{"m": 1})
	if err != nil {
		t.Fatal(err)
	}
	s.now = func() time.Time { return start.Add(2 * time.Minute) }
	if _, err := s.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("want ErrInvalidToken, got %v", err)
	}
}

func TestNoExpiry(t *testing.T) {
	s, _ := NewSigner([]byte("secret"), 0)
	tok, _ := s.Sign("phases", map[string]float64{"C0": 0.5})
	s.now = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }
	if _, err := s.Parse(tok); err != nil {
		t.Errorf("want valid token, got %v", err)
	}
}

func TestTampered(t *testing.T) {
	s, _ := NewSigner([]byte("secret"), time.Hour)
	other, _ := NewSigner([]byte("other"), time.Hour)
	tok, _ := other.Sign("phases", map[string]float64{"C0": 0.5})

	tests := map[string]string{
		"wrong key": tok,
		"garbage":   "not.a.token",
		"empty":     "",
		"truncated": tok[:strings.LastIndex(tok, ".")],
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Parse(in); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("want ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestNoKey(t *testing.T) {
	if _, err := NewSigner(nil, time.Hour); !errors.Is(err, ErrNoKey) {
		t.Errorf("want ErrNoKey, got %v", err)
	}
}
