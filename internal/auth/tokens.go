package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/radieske/p2p-pledge-backend/internal/shared/errs"
)

// TokenTTL é a validade absoluta de um token de sessão
const TokenTTL = 24 * time.Hour

const issuer = "p2p-pledge-backend"

// Tokens emite e valida tokens HS256
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens falha se o segredo estiver vazio; não existe segredo padrão
func NewTokens(secret string) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("token signing secret is empty")
	}
	return &Tokens{secret: []byte(secret), ttl: TokenTTL, now: time.Now}, nil
}

// Issue assina um token para o usuário com expiração em now+24h
func (t *Tokens) Issue(u Summary) (string, error) {
	now := t.now().UTC()
	claims := Claims{
		Username: u.Username,
		Phone:    u.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify rejeita assinatura inválida, algoritmo diferente de HS256,
// token sem exp e token expirado (sem tolerância)
func (t *Tokens) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidToken, err)
	}
	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("%w: bad subject", errs.ErrInvalidToken)
	}
	return claims, nil
}
