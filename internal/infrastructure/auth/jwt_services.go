package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/honeynil/FinanceService/internal/infrastructure/redis"
	"github.com/honeynil/FinanceService/internal/models"
)

// TokenIssuer signs HS256 session tokens and keeps the latest one per user in
// redis, so a token stops working once it is replaced or revoked.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	store  redis.RedisClient
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration, store redis.RedisClient) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, store: store, now: time.Now}
}

func tokenKey(userID int64) string {
	return fmt.Sprintf("user:%d:token", userID)
}

func (i *TokenIssuer) Issue(ctx context.Context, userID int64) (string, error) {
	if len(i.secret) == 0 {
		return "", fmt.Errorf("JWT secret not set")
	}
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(i.ttl).Unix(),
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	if err := i.store.Set(ctx, tokenKey(userID), signed, i.ttl); err != nil {
		slog.Error("failed to cache JWT", "user_id", userID, "error", err)
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return signed, nil
}

// Validate checks signature, expiry and that the token is still the active
// one for its user.
func (i *TokenIssuer) Validate(ctx context.Context, tokenStr string) (*models.TokenClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method.Alg())
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid user_id in token")
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("invalid exp in token")
	}
	iat, _ := claims.GetIssuedAt()

	stored, err := i.store.Get(ctx, tokenKey(int64(userID)))
	if err != nil || stored != tokenStr {
		return nil, fmt.Errorf("revoked token")
	}

	tc := &models.TokenClaims{UserID: int64(userID), ExpiresAt: exp.Time}
	if iat != nil {
		tc.IssuedAt = iat.Time
	}
	return tc, nil
}

func (i *TokenIssuer) Revoke(ctx context.Context, userID int64) error {
	return i.store.Del(ctx, tokenKey(userID))
}
