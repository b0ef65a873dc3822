// Package server exposes the webhook and API surface: telephony voice
// callbacks, chat message webhooks, channel status callbacks, and JSON
// endpoints over the stored sessions and quotations.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zulandar/quotewire/internal/channel"
	"github.com/zulandar/quotewire/internal/conversation"
	"github.com/zulandar/quotewire/internal/fallback"
	"github.com/zulandar/quotewire/internal/notify"
)

// Opts holds configuration for the webhook server.
type Opts struct {
	DB          *gorm.DB
	Engine      *conversation.Engine
	Coordinator *fallback.Coordinator
	Chat        channel.ChatTransport // dispatches fallback outreach; optional
	Notifier    notify.Notifier       // optional
	Port        int
	Out         io.Writer
}

// Server wires the gin router over the conversation engine.
type Server struct {
	opts   Opts
	router *gin.Engine
}

// New validates opts and builds the router.
func New(opts Opts) (*Server, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("server: db is required")
	}
	if opts.Engine == nil {
		return nil, fmt.Errorf("server: engine is required")
	}
	if opts.Port <= 0 {
		opts.Port = 5000
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{opts: opts, router: router}
	s.registerRoutes()
	return s, nil
}

// Router exposes the gin engine for httptest-based tests.
func (s *Server) Router() *gin.Engine { return s.router }

// Run starts the HTTP server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.opts.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if s.opts.Out != nil {
		fmt.Fprintf(s.opts.Out, "Quotewire webhooks listening on http://localhost:%d\n", s.opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
