package model

import "time"

// User represents an application account.  The core trusts the identifier
// and transporter flag resolved by the auth layer and performs no
// credential checks of its own beyond login/registration.
//
// Fields:
//  ID            – primary key identifier.
//  Email         – unique, stored lowercase.
//  PasswordHash  – bcrypt hash, never serialized.
//  Name          – display name shown on trips and bookings.
//  Phone         – optional contact number.
//  IsTransporter – whether the user may offer trips.
//  CreatedAt     – timestamp of creation.
type User struct {
    ID            uint64    `json:"id"`
    Email         string    `json:"email"`
    PasswordHash  string    `json:"-"`
    Name          string    `json:"name"`
    Phone         string    `json:"phone,omitempty"`
    IsTransporter bool      `json:"is_transporter"`
    CreatedAt     time.Time `json:"created_at"`
}

// RefreshToken models a stored refresh session.  Only the SHA-256 hash of
// the raw token is persisted.
type RefreshToken struct {
    ID        uint64
    UserID    uint64
    TokenHash string
    ExpiresAt time.Time
    RevokedAt *time.Time
    CreatedAt time.Time
}
