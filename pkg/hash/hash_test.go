package hash

import "testing"

func TestPassword_RoundTrip(t *testing.T) {
	hashed, err := Password("secreto123")
	if err != nil {
		t.Fatalf("Password: %v", err)
	}
	if hashed == "secreto123" {
		t.Fatal("hash equals the plaintext")
	}
	if !VerifyPassword(hashed, "secreto123") {
		t.Error("correct password did not verify")
	}
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	hashed, err := Password("secreto123")
	if err != nil {
		t.Fatalf("Password: %v", err)
	}
	if VerifyPassword(hashed, "secreto124") {
		t.Error("wrong password verified")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	if VerifyPassword("not-a-bcrypt-hash", "whatever") {
		t.Error("malformed hash verified")
	}
}

func TestPassword_DistinctSalts(t *testing.T) {
	a, err := Password("secreto123")
	if err != nil {
		t.Fatalf("Password: %v", err)
	}
	b, err := Password("secreto123")
	if err != nil {
		t.Fatalf("Password: %v", err)
	}
	if a == b {
		t.Error("two hashes of the same password are identical")
	}
}
