package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Fatal("correct password must verify")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashPasswordDefaultsLowCost(t *testing.T) {
	hash, err := HashPassword("s3cret", 0)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost parse error: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("want default cost %d, got %d", bcrypt.DefaultCost, cost)
	}
}
