package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/radieske/p2p-pledge-backend/internal/shared/errs"
)

const postColumns = `id, user_id, user_name, caption, image_url, image_path, created_at, updated_at`

// Postgres implementa a persistência de posts
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Insert grava o post e preenche CreatedAt/UpdatedAt
func (p *Postgres) Insert(ctx context.Context, post *Post) error {
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO posts (id, user_id, user_name, caption, image_url, image_path, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
		RETURNING created_at, updated_at`,
		post.ID, post.UserID, post.UserName, post.Caption, post.ImageURL, post.ImagePath,
	).Scan(&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, id string) (*Post, error) {
	post, err := scanPost(p.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select post: %w", err)
	}
	return post, nil
}

func (p *Postgres) List(ctx context.Context) ([]Post, error) {
	return p.queryAll(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC`)
}

func (p *Postgres) ListByUser(ctx context.Context, userID string) ([]Post, error) {
	return p.queryAll(ctx, `SELECT `+postColumns+` FROM posts WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

// UpdateCaption detecta post inexistente por zero linhas afetadas
func (p *Postgres) UpdateCaption(ctx context.Context, id, caption string) error {
	res, err := p.db.ExecContext(ctx, `UPDATE posts SET caption=$1, updated_at=NOW() WHERE id=$2`, caption, id)
	if err != nil {
		return fmt.Errorf("update caption: %w", err)
	}
	return requireAffected(res)
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return requireAffected(res)
}

func (p *Postgres) queryAll(ctx context.Context, q string, args ...any) ([]Post, error) {
	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	out := []Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, *post)
	}
	return out, rows.Err()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return errs.ErrPostNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*Post, error) {
	var p Post
	if err := s.Scan(&p.ID, &p.UserID, &p.UserName, &p.Caption, &p.ImageURL, &p.ImagePath, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
