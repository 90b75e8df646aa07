package auth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/radieske/p2p-pledge-backend/internal/shared/errs"
)

// Repo define as operações de usuário usadas pelo serviço de credenciais
type Repo interface {
	ExistsByUsernameOrPhone(ctx context.Context, username, phone string) (bool, error)
	Create(ctx context.Context, username, phone, passwordHash string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
}

// Service registra usuários, valida senhas e emite tokens de sessão
type Service struct {
	log    *zap.Logger
	repo   Repo
	tokens *Tokens
	cost   int

	// hash usado quando o usuário não existe, para que a resposta
	// leve o mesmo tempo de uma senha errada
	dummyHash []byte
}

func NewService(log *zap.Logger, repo Repo, tokens *Tokens, cost int) (*Service, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range", cost)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	return &Service{log: log, repo: repo, tokens: tokens, cost: cost, dummyHash: dummy}, nil
}

// Register cria o usuário com saldo zero e retorna o resumo com o token
func (s *Service) Register(ctx context.Context, username, phone, password string) (Summary, string, error) {
	if username == "" || phone == "" || password == "" {
		return Summary{}, "", errs.Invalid(errs.ErrInvalidRequest, "username, phone and password are required")
	}

	exists, err := s.repo.ExistsByUsernameOrPhone(ctx, username, phone)
	if err != nil {
		return Summary{}, "", fmt.Errorf("lookup user: %w", err)
	}
	if exists {
		return Summary{}, "", errs.ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return Summary{}, "", errs.Invalid(errs.ErrInvalidRequest, "password too long")
		}
		return Summary{}, "", fmt.Errorf("hash password: %w", err)
	}

	// a constraint unique cobre a corrida entre o SELECT e o INSERT
	user, err := s.repo.Create(ctx, username, phone, string(hash))
	if err != nil {
		return Summary{}, "", err
	}

	return s.issue(user)
}

// Login autentica por username
func (s *Service) Login(ctx context.Context, username, password string) (Summary, string, error) {
	return s.login(ctx, password, func() (*User, error) { return s.repo.GetByUsername(ctx, username) })
}

// LoginWithPhone autentica por telefone
func (s *Service) LoginWithPhone(ctx context.Context, phone, password string) (Summary, string, error) {
	return s.login(ctx, password, func() (*User, error) { return s.repo.GetByPhone(ctx, phone) })
}

// VerifyToken expõe a validação do token para a camada HTTP
func (s *Service) VerifyToken(token string) (*Claims, error) {
	return s.tokens.Verify(token)
}

// login devolve o mesmo erro para usuário inexistente e senha errada
func (s *Service) login(ctx context.Context, password string, find func() (*User, error)) (Summary, string, error) {
	user, err := find()
	switch {
	case errors.Is(err, errs.ErrNotFound):
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return Summary{}, "", errs.ErrUnauthorized
	case err != nil:
		return Summary{}, "", fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return Summary{}, "", errs.ErrUnauthorized
		}
		return Summary{}, "", fmt.Errorf("verify password: %w", err)
	}

	return s.issue(user)
}

func (s *Service) issue(user *User) (Summary, string, error) {
	sum := user.Summary()
	token, err := s.tokens.Issue(sum)
	if err != nil {
		return Summary{}, "", err
	}
	s.log.Debug("token issued", zap.Int64("user_id", sum.ID))
	return sum, token, nil
}
