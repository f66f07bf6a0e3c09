package app

import "testing"

func TestHashPassword_Deterministic(t *testing.T) {
	first := HashPassword("secret")
	for i := 0; i < 3; i++ {
		if got := HashPassword("secret"); got != first {
			t.Fatalf("digest changed between calls: %q vs %q", got, first)
		}
	}
}

func TestHashPassword_KnownDigest(t *testing.T) {
	// SHA-256 of "admin", the seeded account's password.
	const want = "8c6976e5b5410415bde908bd4dee15dfb167a9c873fc4bb8a81f6f2ab448a918"
	if got := HashPassword("admin"); got != want {
		t.Errorf("HashPassword(\"admin\") = %q, want %q", got, want)
	}
}

func TestHashPassword_FixedLength(t *testing.T) {
	for _, p := range []string{"", "a", "пароль", "a very long password with spaces"} {
		if got := HashPassword(p); len(got) != 64 {
			t.Errorf("HashPassword(%q) has length %d, want 64", p, len(got))
		}
	}
}

func TestHashPassword_DistinctInputs(t *testing.T) {
	if HashPassword("alpha") == HashPassword("beta") {
		t.Error("different passwords produced the same digest")
	}
}
