package auth

import "testing"

func TestHashAndVerifyPassword_Success(t *testing.T) {
	t.Parallel()

	digest, err := HashPassword("pw123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if digest == "pw123" {
		t.Fatalf("digest must not equal the plaintext password")
	}

	if !VerifyPassword("pw123", digest) {
		t.Fatalf("expected password to verify against its own digest")
	}
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	t.Parallel()

	digest, err := HashPassword("pw123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if VerifyPassword("pw124", digest) {
		t.Fatalf("expected wrong password to fail verification")
	}
}

func TestVerifyPassword_MalformedDigest(t *testing.T) {
	t.Parallel()

	// A corrupted digest must behave exactly like a wrong password.
	if VerifyPassword("pw123", "not-a-bcrypt-digest") {
		t.Fatalf("expected malformed digest to fail verification")
	}
	if VerifyPassword("pw123", "") {
		t.Fatalf("expected empty digest to fail verification")
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	t.Parallel()

	d1, err := HashPassword("pw123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	d2, err := HashPassword("pw123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if d1 == d2 {
		t.Fatalf("expected per-call random salt to produce distinct digests")
	}
}
