// Package httpserver exposes the journal JSON API, the assistant relay and
// the reminder trigger over HTTP using gin.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/learnjournal/internal/logging"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	address   string
	logger    logging.Logger
	jwtSecret []byte
	svc       Services
	router    *gin.Engine
}

func New(address string, l logging.Logger, secretKey string, svc Services) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		jwtSecret: []byte(secretKey),
		svc:       svc,
		router:    gin.New(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(gin.Recovery(), s.requestLogger(), cors())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	fn := r.Group("/functions")
	{
		fn.OPTIONS("/ai-assistant", func(c *gin.Context) { c.Status(http.StatusOK) })
		if s.svc.Assistant != nil {
			fn.POST("/ai-assistant", s.requireAuth(), s.handleAssistant)
		}
		if s.svc.Reminders != nil {
			fn.POST("/check-streak-notifications", s.handleCheckReminders)
		}
	}

	if s.svc.Users != nil {
		a := r.Group("/api/auth")
		a.POST("/register", s.handleRegister)
		a.POST("/login", s.handleLogin)
		a.POST("/refresh", s.handleRefresh)
		a.POST("/logout", s.handleLogout)
	}

	api := r.Group("/api", s.requireAuth())
	byID := s.requireID()
	if s.svc.Entries != nil {
		api.GET("/entries", s.handleListEntries)
		api.POST("/entries", s.handleCreateEntry)
		api.GET("/entries/:id", byID, s.handleGetEntry)
		api.PUT("/entries/:id", byID, s.handleUpdateEntry)
		api.DELETE("/entries/:id", byID, s.handleDeleteEntry)
	}
	if s.svc.Topics != nil {
		api.GET("/topics", s.handleListTopics)
		api.POST("/topics", s.handleCreateTopic)
		api.DELETE("/topics/:id", byID, s.handleDeleteTopic)
	}
	if s.svc.Tags != nil {
		api.GET("/tags", s.handleListTags)
		api.POST("/tags", s.handleCreateTag)
		api.DELETE("/tags/:id", byID, s.handleDeleteTag)
	}
	if s.svc.Streak != nil {
		api.GET("/streak", s.handleStreak)
		api.GET("/streak/window", s.handleStreakWindow)
	}
	if s.svc.Favorites != nil {
		api.GET("/favorites", s.handleListFavorites)
		api.POST("/favorites", s.handleAddFavorite)
		api.DELETE("/favorites/:id", byID, s.handleRemoveFavorite)
	}
	if s.svc.Subscriptions != nil {
		api.GET("/push/subscriptions", s.handleSubscriptionStatus)
		api.PUT("/push/subscriptions", s.handleSubscribe)
		api.DELETE("/push/subscriptions", s.handleUnsubscribe)
	}
	if s.svc.Export != nil {
		api.POST("/export", s.handleExport)
	}
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		errc <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-errc
}
