package dto

import "github.com/radieske/p2p-pledge-backend/internal/auth"

type RegisterRequest struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type PhoneLoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Phone    string  `json:"phone"`
	Balance  float64 `json:"balance"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// MeResponse reflete as claims do token verificado
type MeResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Phone     string `json:"phone"`
	ExpiresAt int64  `json:"exp"`
}

func NewAuthResponse(u auth.Summary, token string) AuthResponse {
	return AuthResponse{
		User: UserResponse{
			ID:       u.ID,
			Username: u.Username,
			Phone:    u.Phone,
			Balance:  u.Balance.InexactFloat64(),
		},
		Token: token,
	}
}

func NewMeResponse(c *auth.Claims) MeResponse {
	me := MeResponse{ID: c.Subject, Username: c.Username, Phone: c.Phone}
	if c.ExpiresAt != nil {
		me.ExpiresAt = c.ExpiresAt.Unix()
	}
	return me
}
