package web

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"linksummary/internal/domain"
	"linksummary/internal/loader"
	"linksummary/internal/summary"
)

//nolint:gochecknoglobals // Read-only list rendered next to errors.
var quickFixes = []string{
	"Use simple blog posts",
	"Avoid login-walled sites",
	"Try: https://groq.com",
}

type pageData struct {
	Title    string
	Action   string
	Provider string
	Model    string
	URL      string

	Info    string
	Success string
	Warning string
	Error   string
	Tips    []string

	Summary   template.HTML
	Documents string
	Chars     string
	Strategy  domain.Strategy
	Loader    string
	Cached    bool
	Elapsed   string
}

type summarizeRequest struct {
	URL    string `json:"url"`
	APIKey string `json:"api_key"`
}

type summarizeResponse struct {
	URL       string          `json:"url"`
	Summary   string          `json:"summary"`
	Documents int             `json:"documents"`
	Chars     int             `json:"chars"`
	Strategy  domain.Strategy `json:"strategy"`
	Loader    string          `json:"loader"`
	Notice    string          `json:"notice,omitempty"`
	Cached    bool            `json:"cached"`
	ElapsedMS int64           `json:"elapsed_ms"`
}

func (s *Server) newPage(rawURL string) pageData {
	return pageData{
		Title:    pageTitle,
		Action:   "/summarize",
		Provider: s.cfg.Provider,
		Model:    s.cfg.Model,
		URL:      strings.TrimSpace(rawURL),
	}
}

// GET /
func (s *Server) indexHandler(c *gin.Context) {
	c.HTML(http.StatusOK, templateName, s.newPage(c.Query("url")))
}

// POST /summarize
func (s *Server) summarizeFormHandler(c *gin.Context) {
	rawURL := c.PostForm("url")
	page := s.newPage(rawURL)

	result, err := s.summarize(c, rawURL, c.PostForm("api_key"))
	if err != nil {
		page.Error = summary.UserMessage(err, s.cfg.Provider)
		if !summary.IsInputError(err) {
			page.Tips = quickFixes
		}

		c.HTML(statusFor(err), templateName, page)
		return
	}

	if loader.IsYouTubeURL(result.URL) {
		page.Info = "📺 Processed YouTube"
	} else {
		page.Info = "🌐 Loaded website"
	}

	p := message.NewPrinter(language.English)

	page.Warning = result.Notice
	page.Success = "Summary ready!"
	page.Summary = s.renderSummary(c, result.Summary)
	page.Documents = p.Sprintf("%d", result.Documents)
	page.Chars = p.Sprintf("%d", result.Chars)
	page.Strategy = result.Strategy
	page.Loader = result.Loader
	page.Cached = result.Cached
	page.Elapsed = result.Elapsed.Round(100 * time.Millisecond).String()

	c.HTML(http.StatusOK, templateName, page)
}

// POST /api/summarize
func (s *Server) summarizeAPIHandler(c *gin.Context) {
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
		return
	}

	apiKey := req.APIKey
	if bearer, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok && apiKey == "" {
		apiKey = bearer
	}

	result, err := s.summarize(c, req.URL, apiKey)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": gin.H{"message": summary.UserMessage(err, s.cfg.Provider)}})
		return
	}

	c.JSON(http.StatusOK, summarizeResponse{
		URL:       result.URL,
		Summary:   result.Summary,
		Documents: result.Documents,
		Chars:     result.Chars,
		Strategy:  result.Strategy,
		Loader:    result.Loader,
		Notice:    result.Notice,
		Cached:    result.Cached,
		ElapsedMS: result.Elapsed.Milliseconds(),
	})
}

func (s *Server) renderSummary(c *gin.Context, text string) template.HTML {
	rendered, err := s.renderer.render(text)
	if err != nil {
		s.log.WarnContext(c.Request.Context(), "Failed to render summary markdown",
			"error", err)

		return template.HTML("<p>" + template.HTMLEscapeString(text) + "</p>") //nolint:gosec // Escaped above.
	}

	return rendered
}

func (s *Server) formLimitedHandler(c *gin.Context) {
	page := s.newPage(c.PostForm("url"))
	page.Error = "Too many requests, please wait a moment and try again"

	c.HTML(http.StatusTooManyRequests, templateName, page)
}

func (s *Server) summarize(c *gin.Context, rawURL string, apiKey string) (domain.Result, error) {
	ctx := c.Request.Context()
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	result, err := s.svc.Summarize(ctx, domain.Request{URL: rawURL, APIKey: apiKey})
	if err != nil {
		level := s.log.WarnContext
		if !summary.IsInputError(err) {
			level = s.log.ErrorContext
		}

		level(ctx, "Failed to summarize URL",
			"error", err,
			"url", strings.TrimSpace(rawURL),
			"clientIP", c.ClientIP())

		return domain.Result{}, err
	}

	s.log.InfoContext(ctx, "URL is summarized",
		"url", result.URL,
		"loader", result.Loader,
		"strategy", result.Strategy,
		"documents", result.Documents,
		"chars", result.Chars,
		"cached", result.Cached,
		"elapsed", result.Elapsed)

	return result, nil
}

func statusFor(err error) int {
	var tooShort *summary.ContentTooShortError

	switch {
	case summary.IsInputError(err):
		return http.StatusBadRequest
	case errors.As(err, &tooShort), errors.Is(err, loader.ErrAllLoadersFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
