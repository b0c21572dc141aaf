package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePasswordAggregatesViolations(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     []string
	}{
		{
			name:     "short and no uppercase",
			password: "abc",
			want: []string{
				"Password must be at least 6 characters long",
				"Must have an Uppercase letter in the password",
			},
		},
		{
			name:     "no lowercase",
			password: "ABCDEF",
			want:     []string{"Must have a Lowercase letter in the password"},
		},
		{
			name:     "everything missing",
			password: "",
			want: []string{
				"Password must be at least 6 characters long",
				"Must have an Uppercase letter in the password",
				"Must have a Lowercase letter in the password",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if err == nil {
				t.Fatal("expected a policy error")
			}
			if !errors.Is(err, ErrWeakPassword) {
				t.Fatalf("expected ErrWeakPassword, got %v", err)
			}

			var policyErr *PasswordPolicyError
			if !errors.As(err, &policyErr) {
				t.Fatalf("expected PasswordPolicyError, got %T", err)
			}
			if len(policyErr.Violations) != len(tt.want) {
				t.Fatalf("expected %d violations, got %d: %v", len(tt.want), len(policyErr.Violations), policyErr.Violations)
			}
			for _, want := range tt.want {
				if !strings.Contains(err.Error(), want) {
					t.Fatalf("expected %q in %q", want, err.Error())
				}
			}
		})
	}
}

func TestValidatePasswordAccepts(t *testing.T) {
	for _, password := range []string{"Abcdef", "Lovelace1", "xY3!!!"} {
		if err := ValidatePassword(password); err != nil {
			t.Fatalf("expected %q to pass, got %v", password, err)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "Ada@Example.com", want: "ada@example.com"},
		{in: "  ada@example.com  ", want: "ada@example.com"},
		{in: "not-an-email", wantErr: true},
		{in: "", wantErr: true},
		{in: "Ada Lovelace <ada@example.com>", wantErr: true},
	}

	for _, tt := range tests {
		got, err := NormalizeEmail(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidEmail) {
				t.Fatalf("NormalizeEmail(%q): expected ErrInvalidEmail, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NormalizeEmail(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("Lovelace1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := VerifyPassword(hash, "Lovelace1"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := VerifyPassword(hash, "Wrong1pass"); err == nil {
		t.Fatal("expected mismatch for wrong password")
	}
}
