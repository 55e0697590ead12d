package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/time/rate"

	"alphamastery/internal/activities"
	"alphamastery/internal/chat"
	"alphamastery/internal/config"
	"alphamastery/internal/content"
	"alphamastery/internal/logging"
	"alphamastery/internal/mastery"
	"alphamastery/internal/rotation"
)

// ItemSelector serves the next item of a rotation key.
type ItemSelector interface {
	SelectNext(ctx context.Context, key string) (rotation.Item, error)
}

// MasteryChecker scores an attempt.
type MasteryChecker interface {
	Check(ctx context.Context, expected, submitted string) (mastery.Result, error)
}

// CanvasVerifier checks a handwritten letter.
type CanvasVerifier interface {
	Verify(ctx context.Context, input mastery.CanvasInput) (mastery.Verification, error)
}

// ActivityService serves learning activities.
type ActivityService interface {
	NextSentence(ctx context.Context, level string) (activities.Sentence, error)
	NextReading(ctx context.Context, level string) (activities.Reading, error)
	NextImage(ctx context.Context) (activities.Image, error)
	NextMyths(ctx context.Context, n int) ([]activities.Myth, error)
}

// ParentChat answers parent questions.
type ParentChat interface {
	Ask(ctx context.Context, question, kbHit string) (chat.Reply, error)
}

// ContentStats reports stored item counts per rotation key.
type ContentStats interface {
	Keys(ctx context.Context) ([]content.KeyCount, error)
}

// Dependencies are the collaborators behind the routes.
type Dependencies struct {
	Selector   ItemSelector
	Checker    MasteryChecker
	Verifier   CanvasVerifier
	Activities ActivityService
	Chat       ParentChat
	Content    ContentStats

	Version       string
	VisionEnabled bool
	LLMEnabled    bool
}

func (d Dependencies) validate() error {
	var missing []string
	if d.Selector == nil {
		missing = append(missing, "selector")
	}
	if d.Checker == nil {
		missing = append(missing, "checker")
	}
	if d.Verifier == nil {
		missing = append(missing, "verifier")
	}
	if d.Activities == nil {
		missing = append(missing, "activities")
	}
	if d.Chat == nil {
		missing = append(missing, "chat")
	}
	if d.Content == nil {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return fmt.Errorf("server requires %s", strings.Join(missing, ", "))
	}
	return nil
}

// Server is the HTTP front end.
type Server struct {
	cfg     *config.Config
	deps    Dependencies
	logger  *slog.Logger
	handler http.Handler

	lockPath string
	lock     *flock.Flock

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

// New builds a Server. Nothing is bound until Start.
func New(cfg *config.Config, deps Dependencies, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server requires config")
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(deps.Version) == "" {
		deps.Version = "dev"
	}
	s := &Server{
		cfg:      cfg,
		deps:     deps,
		logger:   logging.NewComponentLogger(logger, "api-server"),
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/rotation/next", s.post(s.handleRotationNext))
	mux.HandleFunc("/mastery/check", s.post(s.handleMasteryCheck))
	mux.HandleFunc("/alphabet_mastery", s.post(s.handleAlphabetMastery))
	mux.HandleFunc("/sentence/next", s.post(s.handleSentenceNext))
	mux.HandleFunc("/reading_speed", s.post(s.handleReadingSpeed))
	mux.HandleFunc("/image_labeling/next", s.post(s.handleImageNext))
	mux.HandleFunc("/myth/next", s.post(s.handleMythNext))
	mux.HandleFunc("/parent_chat", s.post(s.handleParentChat))
	mux.HandleFunc("/api/status", s.get(s.handleStatus))
	mux.HandleFunc("/", s.handleNotFound)

	var limiter *rate.Limiter
	if cfg.Server.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Server.RequestsPerSecond), max(cfg.Server.Burst, 1))
	}

	var handler http.Handler = mux
	handler = authMiddleware(cfg.Paths.APIToken, s, handler)
	handler = rateLimitMiddleware(limiter, s, handler)
	handler = s.accessLog(handler)
	handler = requestContext(handler)
	s.handler = handler
	return s, nil
}

// Handler returns the full middleware chain, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// LockPath returns the single-instance lock file location.
func (s *Server) LockPath() string {
	return s.lockPath
}

// Start takes the instance lock, binds cfg.Paths.APIBind and serves until
// ctx is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return errors.New("server already running")
	}

	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another alphamastery server is already using %s", s.cfg.Database.Path)
	}

	bind := strings.TrimSpace(s.cfg.Paths.APIBind)
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		_ = s.lock.Unlock()
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	srv := s.server
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening",
		logging.String("address", listener.Addr().String()),
		logging.String("lock", s.lockPath),
		logging.Bool("auth", s.cfg.Paths.APIToken != ""),
	)
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the listener down and releases the lock. It is safe to call
// more than once.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("api server shutdown", logging.Error(err))
	}
	s.server = nil
	s.listener = nil
	if err := s.lock.Unlock(); err != nil {
		logging.WarnWithContext(s.logger, "failed to release server lock", "lock_release_failed",
			logging.Error(err),
			logging.String("lock", s.lockPath),
			logging.String(logging.FieldErrorHint, "remove the lock file if no server is running"),
			logging.String(logging.FieldImpact, "next start may report another instance"),
		)
	}
	s.logger.Info("api server stopped")
}
