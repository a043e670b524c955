package api

import (
	"fmt"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "stakedlearn-api"

// Claims identifies the caller of an action. Subject and Address both carry
// the caller's bech32 account address.
type Claims struct {
	Address string `json:"address"`
	jwt.RegisteredClaims
}

// AuthService issues and validates HS256 caller tokens.
type AuthService struct {
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewAuthService creates a token service. A zero ttl issues tokens valid for 24 hours.
func NewAuthService(secret []byte, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{jwtSecret: secret, ttl: ttl, now: time.Now}
}

// GenerateToken issues a token for address.
func (as *AuthService) GenerateToken(address string) (string, error) {
	if _, err := sdk.AccAddressFromBech32(address); err != nil {
		return "", fmt.Errorf("invalid address %q: %w", address, err)
	}

	now := as.now()
	claims := &Claims{
		Address: address,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   address,
			ExpiresAt: jwt.NewNumericDate(now.Add(as.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecret)
}

// ValidateToken validates a token and returns the caller address.
func (as *AuthService) ValidateToken(tokenString string) (sdk.AccAddress, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return as.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(as.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	address := claims.Address
	if address == "" {
		address = claims.Subject
	}
	caller, err := sdk.AccAddressFromBech32(address)
	if err != nil {
		return nil, fmt.Errorf("invalid caller address in token: %w", err)
	}
	return caller, nil
}
