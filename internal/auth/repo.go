package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/radieske/p2p-pledge-backend/internal/shared/errs"
)

// código SQLSTATE de violação de unique
const uniqueViolation = "23505"

// Postgres implementa Repo sobre a tabela users
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

func (p *Postgres) ExistsByUsernameOrPhone(ctx context.Context, username, phone string) (bool, error) {
	var exists bool
	err := p.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username=$1 OR phone=$2)`,
		username, phone,
	).Scan(&exists)
	return exists, err
}

// Create insere o usuário com saldo zero
func (p *Postgres) Create(ctx context.Context, username, phone, passwordHash string) (*User, error) {
	u := &User{Username: username, Phone: phone, PasswordHash: passwordHash}
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO users (username, phone, password_hash, balance, created_at, updated_at)
		VALUES ($1,$2,$3,0,NOW(),NOW())
		RETURNING id, balance, created_at, updated_at`,
		username, phone, passwordHash,
	).Scan(&u.ID, &u.Balance, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, errs.ErrConflict
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (p *Postgres) GetByUsername(ctx context.Context, username string) (*User, error) {
	return p.getOne(ctx, `WHERE username=$1`, username)
}

func (p *Postgres) GetByPhone(ctx context.Context, phone string) (*User, error) {
	return p.getOne(ctx, `WHERE phone=$1`, phone)
}

func (p *Postgres) getOne(ctx context.Context, where string, arg string) (*User, error) {
	var u User
	err := p.db.QueryRowContext(ctx,
		`SELECT id, username, phone, password_hash, balance, created_at, updated_at FROM users `+where,
		arg,
	).Scan(&u.ID, &u.Username, &u.Phone, &u.PasswordHash, &u.Balance, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}
