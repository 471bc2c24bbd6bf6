package models

import "time"

type TokenClaims struct {
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"exp"`
	IssuedAt  time.Time `json:"iat"`
}
