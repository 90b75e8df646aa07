package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

// User é o modelo persistido na tabela users
// PasswordHash nunca sai do pacote auth
type User struct {
	ID           int64
	Username     string
	Phone        string
	PasswordHash string
	Balance      decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary é a projeção pública de um usuário
type Summary struct {
	ID       int64
	Username string
	Phone    string
	Balance  decimal.Decimal
}

func (u *User) Summary() Summary {
	return Summary{ID: u.ID, Username: u.Username, Phone: u.Phone, Balance: u.Balance}
}

// Claims carregadas no token de sessão; Subject é o id do usuário
type Claims struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
	jwt.RegisteredClaims
}

// UserID converte o Subject para o id numérico
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}
