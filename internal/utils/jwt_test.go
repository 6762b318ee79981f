package utils

import (
    "testing"

    "github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenCarriesTransporterClaim(t *testing.T) {
    const secret = "test-secret"
    at, err := NewAccessToken(secret, 42, true, 15)
    if err != nil {
        t.Fatalf("issue failed: %v", err)
    }

    tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        t.Fatalf("parse failed: %v", err)
    }
    claims := tok.Claims.(jwt.MapClaims)
    if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
        t.Fatalf("sub claim wrong: %v", claims["sub"])
    }
    if tr, _ := claims["transporter"].(bool); !tr {
        t.Fatalf("transporter claim wrong: %v", claims["transporter"])
    }
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
    at, err := NewAccessToken("right", 1, false, 15)
    if err != nil {
        t.Fatalf("issue failed: %v", err)
    }
    tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
        return []byte("wrong"), nil
    })
    if err == nil && tok.Valid {
        t.Fatal("token signed with another secret must not validate")
    }
}

func TestRefreshTokenHashStable(t *testing.T) {
    rt, err := NewRefreshToken(30)
    if err != nil {
        t.Fatalf("issue failed: %v", err)
    }
    if rt.Raw == "" {
        t.Fatal("raw token must not be empty")
    }
    if HashRefreshRaw(rt.Raw) != HashRefreshRaw(rt.Raw) {
        t.Fatal("hash must be deterministic")
    }
    rt2, _ := NewRefreshToken(30)
    if rt.Raw == rt2.Raw {
        t.Fatal("two refresh tokens must differ")
    }
}
