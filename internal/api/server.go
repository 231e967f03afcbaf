package api

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/sanverite/blog-api/internal/post"
)

const (
	APIPrefix      = "/api"
	DefaultAddress = "0.0.0.0:5002"
	maxBodySize    = "1M"
)

// ServerOptions configures the HTTP server.
type ServerOptions struct {
	Addr              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	Logger            *slog.Logger

	// CORSOrigins lists allowed origins; defaults to any origin.
	CORSOrigins []string
	// RateLimit is the per-client-IP request rate in requests/second. Zero disables limiting.
	RateLimit float64
	RateBurst int
}

// Server hosts the blog post HTTP API.
type Server struct {
	http      *http.Server
	echo      *echo.Echo
	store     *post.Store
	logger    *slog.Logger
	opts      ServerOptions
	startedAt time.Time
}

// NewServer constructs a new API server bound to the provided store.
// The server does not start listening until Start is called.
func NewServer(store *post.Store, opts ServerOptions) *Server {
	if store == nil {
		panic("api.NewServer: store is nil")
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddress
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 5 * time.Second
	}
	if opts.ReadHeaderTimeout == 0 {
		opts.ReadHeaderTimeout = 2 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.IdleTimeout == 0 {
		opts.IdleTimeout = 60 * time.Second
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	if opts.RateLimit > 0 && opts.RateBurst <= 0 {
		opts.RateBurst = int(math.Ceil(opts.RateLimit))
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = errorHandler(opts.Logger)

	s := &Server{
		echo:   e,
		store:  store,
		logger: opts.Logger,
		opts:   opts,
		http: &http.Server{
			Addr:              opts.Addr,
			Handler:           e,
			ReadTimeout:       opts.ReadTimeout,
			ReadHeaderTimeout: opts.ReadHeaderTimeout,
			WriteTimeout:      opts.WriteTimeout,
			IdleTimeout:       opts.IdleTimeout,
			ErrorLog:          slog.NewLogLogger(opts.Logger.Handler(), slog.LevelError),
		},
	}

	// Middleware
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(opts.Logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: opts.CORSOrigins,
	}))
	if opts.RateLimit > 0 {
		e.Use(rateLimiter(opts.RateLimit, opts.RateBurst))
	}
	e.Use(middleware.BodyLimit(maxBodySize))

	// Routes
	g := e.Group(APIPrefix)
	g.GET("/healthz", s.handleHealthz)
	g.GET("/status", s.handleStatus)
	g.GET("/posts", s.handleListPosts)
	g.POST("/posts", s.handleCreatePost)
	g.GET("/posts/search", s.handleSearchPosts)
	g.PUT("/posts/:id", s.handleUpdatePost)
	g.DELETE("/posts/:id", s.handleDeletePost)
	mountDocs(e)

	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start begins serving HTTP in a background goroutine.
// It returns immediately; use Stop for graceful shutdown.
func (s *Server) Start() {
	s.startedAt = TimeNow()
	go func() {
		s.logger.Info("api: listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api: ListenAndServe failed", "error", err)
		}
	}()
}

// Stop gracefully shuts down the server, waiting up to ShutdownTimeout.
func (s *Server) Stop(ctx context.Context) error {
	timeout := s.opts.ShutdownTimeout
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.http.Shutdown(ctx)
}

// handleHealthz is a simple readiness/liveness endpoint.
func (s *Server) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": TimeNow().UTC().Format(time.RFC3339),
	})
}

// handleStatus reports uptime and collection counters.
func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, newStatus(s.startedAt, s.store.Len(), s.store.NextID()))
}

// requestLogger logs one structured line per request. Handler errors are
// rendered here so the logged status matches what the client received.
func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req, res := c.Request(), c.Response()
			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Int("status", res.Status),
				slog.Duration("latency", time.Since(start)),
				slog.String("ip", c.RealIP()),
				slog.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
			}
			level := slog.LevelInfo
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				if res.Status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
			}
			logger.LogAttrs(req.Context(), level, "request", attrs...)
			return nil
		}
	}
}

// rateLimiter throttles each client IP with a token bucket.
func rateLimiter(rps float64, burst int) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rps),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return writeError(c, http.StatusForbidden, "unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return writeError(c, http.StatusTooManyRequests, "rate limit exceeded")
		},
	})
}

// errorHandler renders framework errors (unknown routes, bad methods,
// recovered panics, oversized bodies) in the APIError shape.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "internal server error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(code)
			}
		} else {
			logger.Error("api: unhandled error", "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = writeError(c, code, msg)
		}
		if err != nil {
			logger.Error("api: failed to send error response", "error", err)
		}
	}
}

func writeError(c echo.Context, status int, msg string, missing ...string) error {
	return c.JSON(status, APIError{
		Error:     msg,
		Missing:   missing,
		Timestamp: TimeNow().UTC().Format(time.RFC3339),
	})
}
