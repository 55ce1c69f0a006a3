// Package httpapi exposes the studio site over HTTP/JSON: admin login,
// content editing, the contact inbox and uploads.
package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/studiosite/internal/logging"
	"github.com/dmitrijs2005/studiosite/internal/server/auth"
	"github.com/dmitrijs2005/studiosite/internal/server/models"
	"github.com/dmitrijs2005/studiosite/internal/server/services"
	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unrolled/secure"
)

type CredentialService interface {
	Login(ctx context.Context, username, password string) (*services.Session, error)
	Authenticate(token string) (*auth.Identity, error)
}

type ContentService interface {
	Get(ctx context.Context, key string) (*models.ContentEntry, error)
	PublicGet(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, raw string) error
	ListAll(ctx context.Context) ([]*models.ContentEntry, error)
}

type MessageService interface {
	Submit(ctx context.Context, form services.ContactForm) (int64, error)
	List(ctx context.Context) ([]*models.Message, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

type UploadService interface {
	Store(ctx context.Context, req services.UploadRequest) (*models.UploadedAsset, error)
	MaxLimit() int64
}

// Pinger reports database reachability; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Config wires dependencies and options into the HTTP server.
type Config struct {
	Credentials CredentialService
	Content     ContentService
	Messages    MessageService
	Uploads     UploadService
	DB          Pinger
	Log         logging.Logger

	// UploadDir is served under UploadURL when set (local upload backend).
	UploadDir string
	UploadURL string

	Development bool
	RateLimit   string
	CORSOrigins []string
	Metrics     bool
}

// Server holds the handlers; Handler builds the routed http.Handler.
type Server struct {
	credentials CredentialService
	content     ContentService
	messages    MessageService
	uploads     UploadService
	db          Pinger
	log         logging.Logger
	cfg         Config
}

func NewServer(cfg Config) *Server {
	log := cfg.Log
	if log == nil {
		log = logging.Nop{}
	}
	return &Server{
		credentials: cfg.Credentials,
		content:     cfg.Content,
		messages:    cfg.Messages,
		uploads:     cfg.Uploads,
		db:          cfg.DB,
		log:         log,
		cfg:         cfg,
	}
}

// Handler returns the router with all middleware attached.
func (s *Server) Handler() (http.Handler, error) {
	// login and contact keep separate budgets per client
	loginLimit, err := NewIPRateLimiter(s.cfg.RateLimit)
	if err != nil {
		return nil, err
	}
	contactLimit, err := NewIPRateLimiter(s.cfg.RateLimit)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(accessLog(s.log))
	r.Use(chimid.Recoverer)
	if s.cfg.Metrics {
		r.Use(PrometheusMiddleware)
	}
	r.Use(secure.New(SecureOptions(s.cfg.Development)).Handler)
	r.Use(CORS(s.cfg.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.health)
	if s.cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}
	if s.cfg.UploadDir != "" {
		s.mountUploads(r)
	}

	r.Route("/api", func(r chi.Router) {
		r.With(loginLimit).Post("/login", s.login)
		r.With(contactLimit).Post("/contact", s.submitContact)
		r.Get("/public/content/{key}", s.publicContent)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/verify", s.verify)

			r.Get("/content", s.listContent)
			r.Get("/content/{key}", s.getContent)
			r.Put("/content/{key}", s.putContent)

			r.Get("/messages", s.listMessages)
			r.Put("/messages/{id}", s.updateMessage)
			r.Delete("/messages/{id}", s.deleteMessage)

			r.Post("/upload", s.upload)
		})
	})

	return r, nil
}

// mountUploads serves stored files without directory listings.
func (s *Server) mountUploads(r chi.Router) {
	prefix := strings.TrimRight(s.cfg.UploadURL, "/")
	if prefix == "" {
		prefix = "/uploads"
	}
	fs := http.StripPrefix(prefix+"/", http.FileServer(http.Dir(s.cfg.UploadDir)))
	r.Get(prefix+"/*", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			writeErr(w, http.StatusNotFound, "not found")
			return
		}
		fs.ServeHTTP(w, r)
	})
}
