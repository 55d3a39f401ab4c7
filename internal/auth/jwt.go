package auth

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/isdelr/habit-tracker-be/internal/models"
)

// TokenCookieName is the cookie JWTResolver falls back to when no bearer
// token is present.
const TokenCookieName = "token"

// Claims defines the JWT claims structure.
type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTResolver issues and validates HS256 session tokens.
type JWTResolver struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewJWTResolver creates a resolver signing with secret. Tokens live for ttl
// (24h when zero).
func NewJWTResolver(secret string, ttl time.Duration) *JWTResolver {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &JWTResolver{key: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateToken creates a new JWT for a given user.
func (j *JWTResolver) GenerateToken(user models.User) (string, error) {
	now := j.now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.key)
}

// ValidateToken parses and validates a JWT string.
func (j *JWTResolver) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return j.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(j.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Resolve implements IdentityResolver. The token is read from the
// Authorization header, falling back to the token cookie.
func (j *JWTResolver) Resolve(r *http.Request) (int64, error) {
	var tokenStr string

	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if after, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			tokenStr = strings.TrimSpace(after)
		}
	}
	if tokenStr == "" {
		if cookie, err := r.Cookie(TokenCookieName); err == nil {
			tokenStr = cookie.Value
		}
	}
	if tokenStr == "" {
		return 0, ErrUnauthenticated
	}

	claims, err := j.ValidateToken(tokenStr)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return claims.UserID, nil
}
