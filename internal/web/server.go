package web

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"linksummary/internal/domain"
)

const (
	pageTitle    = "Summarize Text From YT or Website"
	templateName = "index.html"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Summarizer interface {
	Summarize(ctx context.Context, req domain.Request) (domain.Result, error)
}

type Config struct {
	Provider       string
	Model          string
	RequestTimeout time.Duration
}

type Server struct {
	svc      Summarizer
	cfg      Config
	limiter  *RateLimiter
	renderer *summaryRenderer
	log      *slog.Logger
}

func New(svc Summarizer, limiter *RateLimiter, cfg Config, log *slog.Logger) *Server {
	return &Server{
		svc:      svc,
		cfg:      cfg,
		limiter:  limiter,
		renderer: newSummaryRenderer(),
		log:      log,
	}
}

// Router builds the gin engine serving the form and the JSON API.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	r.GET("/", s.indexHandler)
	r.GET("/health", healthHandler)
	r.POST("/summarize", s.limiter.Middleware(s.formLimitedHandler), s.summarizeFormHandler)

	api := r.Group("/api")
	{
		api.POST("/summarize", s.limiter.Middleware(nil), s.summarizeAPIHandler)
	}

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.log.InfoContext(c.Request.Context(), "Request is handled",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"clientIP", c.ClientIP(),
			"elapsed", time.Since(start))
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
