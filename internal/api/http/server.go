package httpapi

import (
	"context"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/radieske/p2p-pledge-backend/internal/auth"
	"github.com/radieske/p2p-pledge-backend/internal/games"
	"github.com/radieske/p2p-pledge-backend/internal/pledges"
	"github.com/radieske/p2p-pledge-backend/internal/posts"
)

type AuthService interface {
	Register(ctx context.Context, username, phone, password string) (auth.Summary, string, error)
	Login(ctx context.Context, username, password string) (auth.Summary, string, error)
	LoginWithPhone(ctx context.Context, phone, password string) (auth.Summary, string, error)
	VerifyToken(token string) (*auth.Claims, error)
}

type PledgeService interface {
	Create(ctx context.Context, n pledges.NewPledge) (*pledges.Pledge, error)
	List(ctx context.Context, f pledges.Filter) ([]pledges.Pledge, error)
	ByUser(ctx context.Context, username string) ([]pledges.Pledge, error)
	Recent(ctx context.Context) ([]pledges.Pledge, error)
	Stats(ctx context.Context, homeTeam, awayTeam string) (pledges.MatchStats, error)
}

type GameService interface {
	List(ctx context.Context, f games.Filter) ([]games.Game, error)
	Create(ctx context.Context, n games.NewGame) (*games.Game, error)
}

type PostService interface {
	Create(ctx context.Context, mr *multipart.Reader) (*posts.Post, error)
	Get(ctx context.Context, id string) (*posts.Post, error)
	List(ctx context.Context) ([]posts.Post, error)
	ListByUser(ctx context.Context, userID string) ([]posts.Post, error)
	UpdateCaption(ctx context.Context, id, caption string) error
	Delete(ctx context.Context, id string) error
	Open(ctx context.Context, fileName string) ([]byte, error)
	MaxBytes() int64
}

const (
	jsonBodyLimit = 1 << 20
	// folga para os campos de texto e cabeçalhos das partes
	multipartOverhead = 1 << 20
	requestTimeout    = 30 * time.Second
)

// Server expõe a API REST e o endpoint WebSocket de estatísticas ao vivo
type Server struct {
	log     *zap.Logger
	auth    AuthService
	pledges PledgeService
	games   GameService
	posts   PostService
	live    http.Handler // opcional
}

func NewServer(log *zap.Logger, a AuthService, p PledgeService, g GameService, ps PostService, live http.Handler) *Server {
	return &Server{log: log, auth: a, pledges: p, games: g, posts: ps, live: live}
}

// Router monta as rotas sob /api
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors)
	r.Use(s.requestLogger)
	r.Use(observeDuration)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Peer-to-Peer Betting API"))
	})

	r.Route("/api", func(r chi.Router) {
		if s.live != nil {
			r.Get("/ws/stats", s.live.ServeHTTP)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))

			r.Route("/auth", func(r chi.Router) {
				r.Post("/register", s.register)
				r.Post("/login", s.login)
				r.Post("/login-phone", s.loginWithPhone)
				r.With(s.requireToken).Get("/me", s.me)
			})

			r.Route("/games", func(r chi.Router) {
				r.Get("/", s.listGames)
				r.Post("/post", s.createGame)
			})

			r.Route("/pledges", func(r chi.Router) {
				r.Get("/", s.listPledges)
				r.Post("/", s.createPledge)
				r.Get("/stats", s.pledgeStats)
				r.Get("/user", s.userPledges)
				r.Get("/recent", s.recentPledges)
			})

			r.Route("/posts", func(r chi.Router) {
				r.Post("/", s.createPost)
				r.Get("/", s.listPosts)
				r.Get("/user/{userId}", s.userPosts)
				r.Get("/{id}", s.getPost)
				r.Patch("/{id}/caption", s.updateCaption)
				r.Delete("/{id}", s.deletePost)
			})

			r.Get("/uploads/{fileName}", s.serveUpload)
		})
	})
	return r
}
