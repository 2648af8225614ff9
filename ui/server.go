// Package ui serves the browser form for requesting predictions.
package ui

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lifeexp/internal"
	"lifeexp/internal/container"
)

// Server represents the web server for the prediction UI
type Server struct {
	router    *gin.Engine
	container *container.Container
	templates *template.Template
	log       *internal.Logger
}

// NewServer creates a new web server instance. files must hold the page
// templates under templates/.
func NewServer(c *container.Container, files fs.FS) (*Server, error) {
	tmpl, err := parseTemplates(files)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	s := &Server{
		router:    router,
		container: c,
		templates: tmpl,
		log:       c.Logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/variants/:name", s.handleForm)
	s.router.POST("/variants/:name/predict", s.handlePredict)
	s.router.NoRoute(func(c *gin.Context) {
		s.renderError(c, http.StatusNotFound, "Page not found", "There is nothing at "+c.Request.URL.Path+".")
	})
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("UI listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down UI server")
		return srv.Shutdown(shutdownCtx)
	}
}
