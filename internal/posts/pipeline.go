package posts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/p2p-pledge-backend/internal/shared/errs"
	"github.com/radieske/p2p-pledge-backend/internal/shared/metrics"
)

const (
	DefaultMaxImageBytes int64 = 10 * 1024 * 1024
	DefaultURLPrefix           = "/api/uploads/"

	maxTextField = 64 * 1024
)

var allowedExt = map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true}

// Repo define a persistência de posts usada pelo pipeline
type Repo interface {
	Insert(ctx context.Context, p *Post) error
	Get(ctx context.Context, id string) (*Post, error)
	List(ctx context.Context) ([]Post, error)
	ListByUser(ctx context.Context, userID string) ([]Post, error)
	UpdateCaption(ctx context.Context, id, caption string) error
	Delete(ctx context.Context, id string) error
}

// Pipeline valida uploads, grava a imagem e registra o post.
// O arquivo é sempre gravado antes da linha.
type Pipeline struct {
	log       *zap.Logger
	repo      Repo
	store     ContentStore
	maxBytes  int64
	urlPrefix string
}

func NewPipeline(log *zap.Logger, repo Repo, store ContentStore, maxBytes int64) *Pipeline {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &Pipeline{log: log, repo: repo, store: store, maxBytes: maxBytes, urlPrefix: DefaultURLPrefix}
}

// MaxBytes é o limite de tamanho aceito para a imagem
func (p *Pipeline) MaxBytes() int64 { return p.maxBytes }

type upload struct {
	caption  string
	userID   string
	userName string
	image    []byte
	ext      string
	hasImage bool
}

// Create consome o multipart e cria o post
func (p *Pipeline) Create(ctx context.Context, mr *multipart.Reader) (*Post, error) {
	up, err := p.readParts(mr)
	if err != nil {
		p.reject(err)
		return nil, err
	}

	if up.userID == "" || up.userName == "" {
		p.reject(errs.ErrInvalidUserData)
		return nil, errs.Invalid(errs.ErrInvalidUserData, "userId and userName are required")
	}
	if !up.hasImage {
		p.reject(errs.ErrNoImageProvided)
		return nil, errs.ErrNoImageProvided
	}

	name := uuid.NewString() + "." + up.ext
	path, err := p.store.Save(ctx, name, up.image)
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	post := &Post{
		ID:        uuid.NewString(),
		UserID:    up.userID,
		UserName:  up.userName,
		Caption:   up.caption,
		ImageURL:  p.urlPrefix + name,
		ImagePath: path,
	}
	if err := p.repo.Insert(ctx, post); err != nil {
		if rmErr := p.store.Remove(ctx, path); rmErr != nil {
			metrics.OrphanFiles.Inc()
			p.log.Warn("failed to remove image after insert error",
				zap.String("path", path), zap.Error(rmErr))
		}
		return nil, err
	}

	metrics.PostsUploaded.Inc()
	p.log.Info("post created",
		zap.String("post_id", post.ID),
		zap.String("user_id", post.UserID),
		zap.Int("bytes", len(up.image)))
	return post, nil
}

func (p *Pipeline) readParts(mr *multipart.Reader) (*upload, error) {
	up := &upload{}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return up, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrInvalidMultipart, err)
		}

		err = p.readPart(part, up)
		_ = part.Close()
		if err != nil {
			return nil, err
		}
	}
}

func (p *Pipeline) readPart(part *multipart.Part, up *upload) error {
	switch part.FormName() {
	case "caption":
		return readText(part, &up.caption)
	case "userId":
		return readText(part, &up.userID)
	case "userName":
		return readText(part, &up.userName)
	case "image":
		if up.hasImage {
			return errs.Invalid(errs.ErrInvalidMultipart, "more than one image field")
		}
		data, err := io.ReadAll(io.LimitReader(part, p.maxBytes+1))
		if err != nil {
			return fmt.Errorf("%w: %v", errs.ErrInvalidMultipart, err)
		}
		// tamanho antes da extensão
		if int64(len(data)) > p.maxBytes {
			return errs.Invalid(errs.ErrImageTooLarge, "max %d bytes", p.maxBytes)
		}
		ext := imageExt(part.FileName())
		if !allowedExt[ext] {
			return errs.Invalid(errs.ErrInvalidImageFormat, "allowed: jpg, jpeg, png, gif")
		}
		up.image, up.ext, up.hasImage = data, ext, true
		return nil
	default:
		_, err := io.Copy(io.Discard, part)
		if err != nil {
			return fmt.Errorf("%w: %v", errs.ErrInvalidMultipart, err)
		}
		return nil
	}
}

func readText(part *multipart.Part, dst *string) error {
	b, err := io.ReadAll(io.LimitReader(part, maxTextField+1))
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidMultipart, err)
	}
	if len(b) > maxTextField {
		return errs.Invalid(errs.ErrInvalidMultipart, "field %q too long", part.FormName())
	}
	*dst = string(b)
	return nil
}

// imageExt extrai a extensão em minúsculas; sem nome de arquivo não há extensão
func imageExt(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
}

func (p *Pipeline) reject(err error) {
	reason := "other"
	switch {
	case errors.Is(err, errs.ErrImageTooLarge):
		reason = "too_large"
	case errors.Is(err, errs.ErrInvalidImageFormat):
		reason = "format"
	case errors.Is(err, errs.ErrInvalidUserData):
		reason = "user_data"
	case errors.Is(err, errs.ErrNoImageProvided):
		reason = "no_image"
	case errors.Is(err, errs.ErrInvalidMultipart):
		reason = "multipart"
	}
	metrics.UploadsRejected.WithLabelValues(reason).Inc()
}

func (p *Pipeline) Get(ctx context.Context, id string) (*Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errs.ErrPostNotFound
	}
	return p.repo.Get(ctx, id)
}

func (p *Pipeline) List(ctx context.Context) ([]Post, error) {
	return p.repo.List(ctx)
}

func (p *Pipeline) ListByUser(ctx context.Context, userID string) ([]Post, error) {
	return p.repo.ListByUser(ctx, userID)
}

// UpdateCaption troca somente a legenda; string vazia é rejeitada
func (p *Pipeline) UpdateCaption(ctx context.Context, id, caption string) error {
	if caption == "" {
		return errs.Invalid(errs.ErrInvalidUserData, "caption must be a non-empty string")
	}
	if _, err := uuid.Parse(id); err != nil {
		return errs.ErrPostNotFound
	}
	return p.repo.UpdateCaption(ctx, id, caption)
}

// Delete remove o arquivo (best-effort) e depois a linha, que é a operação autoritativa
func (p *Pipeline) Delete(ctx context.Context, id string) error {
	post, err := p.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := p.store.Remove(ctx, post.ImagePath); err != nil {
		if !errors.Is(err, errs.ErrNotFound) {
			metrics.OrphanFiles.Inc()
		}
		p.log.Warn("failed to remove post image",
			zap.String("post_id", post.ID),
			zap.String("path", post.ImagePath),
			zap.Error(err))
	}

	if err := p.repo.Delete(ctx, id); err != nil {
		return err
	}
	p.log.Info("post deleted", zap.String("post_id", id))
	return nil
}

// Open devolve os bytes de um arquivo enviado; só aceita nome simples
func (p *Pipeline) Open(ctx context.Context, fileName string) ([]byte, error) {
	if fileName == "" || fileName == "." || fileName == ".." ||
		strings.ContainsAny(fileName, `/\`) || filepath.Base(fileName) != fileName {
		return nil, errs.ErrNotFound
	}
	return p.store.Open(ctx, fileName)
}
