package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/stakedlearn/stakedlearn/app"
	academytypes "github.com/stakedlearn/stakedlearn/x/academy/types"
)

// Runtime is the action and query surface the API serves.
type Runtime interface {
	Execute(ctx context.Context, msg academytypes.Msg) (*app.Result, error)
	Faucet(ctx context.Context, caller, recipient sdk.AccAddress, amount math.Int) (*app.Result, error)
	Query(ctx context.Context, fn func(ctx context.Context, qs academytypes.QueryServer) error) error
	Height() int64
	ChainID() string
}

// Server represents the main API server
type Server struct {
	router      *gin.Engine
	handler     http.Handler
	runtime     Runtime
	config      *Config
	logger      log.Logger
	authService *AuthService
}

// Config holds server configuration
type Config struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	JWTSecret       string        `mapstructure:"jwt-secret"`
	TokenTTL        time.Duration `mapstructure:"token-ttl"`
	CORSOrigins     []string      `mapstructure:"cors-origins"`
	RateLimitRPS    int           `mapstructure:"rate-limit-rps"`
	RateLimitBurst  int           `mapstructure:"rate-limit-burst"`
	MaxRequestSize  int64         `mapstructure:"max-request-size"`
	ReadTimeout     time.Duration `mapstructure:"read-timeout"`
	WriteTimeout    time.Duration `mapstructure:"write-timeout"`
	RequestTimeout  time.Duration `mapstructure:"request-timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
	EnableFaucet    bool          `mapstructure:"enable-faucet"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Host:            "0.0.0.0",
		Port:            "1317",
		TokenTTL:        24 * time.Hour,
		CORSOrigins:     []string{"http://localhost:3000"},
		RateLimitRPS:    100,
		RateLimitBurst:  200,
		MaxRequestSize:  1 << 20,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		RequestTimeout:  10 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		EnableFaucet:    true,
	}
}

// NewServer creates a new API server instance. health may be nil.
func NewServer(logger log.Logger, runtime Runtime, config *Config, health http.Handler) (*Server, error) {
	if runtime == nil {
		return nil, errors.New("runtime is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	logger = logger.With("module", "api")

	secret := []byte(config.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		logger.Warn("JWT secret generated randomly; tokens will not survive a restart",
			"secret", hex.EncodeToString(secret))
	}

	s := &Server{
		runtime:     runtime,
		config:      config,
		logger:      logger,
		authService: NewAuthService(secret, config.TokenTTL),
	}
	s.setupRouter(health)
	return s, nil
}

func (s *Server) setupRouter(health http.Handler) {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	// Recovery must be first to catch panics
	s.router.Use(RecoveryMiddleware(s.logger))
	s.router.Use(SecurityHeadersMiddleware())
	s.router.Use(RequestSizeLimitMiddleware(s.config.MaxRequestSize))
	s.router.Use(RequestIDMiddleware())
	s.router.Use(TracingMiddleware())
	s.router.Use(LoggerMiddleware(s.logger))
	if s.config.RateLimitRPS > 0 {
		s.router.Use(RateLimitMiddleware(s.config.RateLimitRPS, s.config.RateLimitBurst))
	}
	if s.config.RequestTimeout > 0 {
		s.router.Use(TimeoutMiddleware(s.config.RequestTimeout))
	}

	if health != nil {
		for _, path := range []string{"/health", "/health/ready", "/health/detailed"} {
			s.router.GET(path, gin.WrapH(health))
		}
	}
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.registerRoutes()

	s.handler = cors.New(cors.Options{
		AllowedOrigins:   s.config.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(s.router)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// AuthService returns the token service of the server.
func (s *Server) AuthService() *AuthService {
	return s.authService
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:        s.handler,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("API server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
