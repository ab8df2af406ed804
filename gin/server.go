// Package gin serves rendered documents, search and markdown export over
// HTTP using the gin router.
package gin

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/prettyrfc"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// CacheControl is sent with pages that may be cached by browsers and proxies.
const CacheControl = "public, max-age=300"

// ShutdownTimeout bounds graceful shutdown in ListenAndServe.
const ShutdownTimeout = 10 * time.Second

// Server is the HTTP route layer. It only talks to the domain through
// prettyrfc interfaces.
type Server struct {
	Resolver  prettyrfc.DocumentResolver
	Search    prettyrfc.SearchService
	Converter prettyrfc.Converter
	Logger    *slog.Logger

	engine *gin.Engine
}

// NewServer creates a Server with its routes registered. Converter may be
// nil, in which case the markdown route answers 404.
func NewServer(resolver prettyrfc.DocumentResolver, search prettyrfc.SearchService, converter prettyrfc.Converter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		Resolver:  resolver,
		Search:    search,
		Converter: converter,
		Logger:    logger,
	}

	tmpl := template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))

	e := gin.New()
	e.SetHTMLTemplate(tmpl)
	e.Use(RequestLogger(logger), gin.Recovery())

	e.GET("/", s.handleIndex)
	e.GET("/search", s.handleSearch)
	e.GET("/url/*path", s.handleURL)
	e.GET("/:doc_id", s.handleDocument)
	e.GET("/:doc_id/markdown", s.handleMarkdown)
	e.NoRoute(func(c *gin.Context) {
		s.renderError(c, prettyrfc.Errorf(prettyrfc.ENOTFOUND, "page not found"))
	})

	s.engine = e
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Header("Cache-Control", CacheControl)
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

// searchPage is the data passed to search.html.
type searchPage struct {
	Query  string
	Result *prettyrfc.SearchResult
	Prev   string
	Next   string
}

func (s *Server) handleSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	result, err := s.Search.Search(c.Request.Context(), query, page, prettyrfc.DefaultSearchLimit)
	if err != nil {
		s.renderError(c, err)
		return
	}

	data := searchPage{Query: query, Result: result}
	if result.HasPrev() {
		data.Prev = searchURL(query, result.Page-1)
	}
	if result.HasNext() {
		data.Next = searchURL(query, result.Page+1)
	}
	c.HTML(http.StatusOK, "search.html", data)
}

func searchURL(query string, page int) string {
	v := url.Values{}
	v.Set("q", query)
	v.Set("page", strconv.Itoa(page))
	return "/search?" + v.Encode()
}

func (s *Server) handleURL(c *gin.Context) {
	fragment := strings.TrimPrefix(c.Param("path"), "/")
	doc, err := s.Resolver.ResolveURL(c.Request.Context(), fragment)
	if err != nil {
		s.renderError(c, err)
		return
	}

	target := doc.ID.Path()
	if hash := c.Query("hash"); hash != "" {
		target += "#" + strings.TrimPrefix(hash, "#")
	}
	c.Redirect(http.StatusFound, target)
}

// documentPage is the data passed to document.html.
type documentPage struct {
	Document *prettyrfc.Document
	Name     string
	Body     template.HTML
}

func (s *Server) handleDocument(c *gin.Context) {
	id, err := prettyrfc.ParseDocumentID(c.Param("doc_id"))
	if err != nil {
		s.renderError(c, prettyrfc.Errorf(prettyrfc.ENOTFOUND, "%s", prettyrfc.ErrorMessage(err)))
		return
	}
	if c.Request.URL.Path != id.Path() {
		c.Redirect(http.StatusMovedPermanently, id.Path())
		return
	}

	doc, err := s.Resolver.Resolve(c.Request.Context(), string(id))
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.Header("Cache-Control", CacheControl)
	if !doc.LastModified.IsZero() {
		modified := doc.LastModified.UTC().Truncate(time.Second)
		c.Header("Last-Modified", modified.Format(http.TimeFormat))
		if since, err := http.ParseTime(c.GetHeader("If-Modified-Since")); err == nil && !modified.After(since) {
			c.Status(http.StatusNotModified)
			return
		}
	}

	c.HTML(http.StatusOK, "document.html", documentPage{
		Document: doc,
		Name:     doc.ID.DisplayName(),
		Body:     template.HTML(doc.RenderedHTML),
	})
}

func (s *Server) handleMarkdown(c *gin.Context) {
	id, err := prettyrfc.ParseDocumentID(c.Param("doc_id"))
	if err != nil || s.Converter == nil {
		s.renderError(c, prettyrfc.Errorf(prettyrfc.ENOTFOUND, "page not found"))
		return
	}
	if want := id.Path() + "/markdown"; c.Request.URL.Path != want {
		c.Redirect(http.StatusMovedPermanently, want)
		return
	}

	doc, err := s.Resolver.Resolve(c.Request.Context(), string(id))
	if err != nil {
		s.renderError(c, err)
		return
	}

	md, err := s.Converter.Convert(doc.RenderedHTML)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.Header("Cache-Control", CacheControl)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}

// errorPage is the data passed to error.html.
type errorPage struct {
	Status  int
	Title   string
	Message string
}

// renderError writes the error page matching the error code. Internal
// error details are logged and not shown.
func (s *Server) renderError(c *gin.Context, err error) {
	page := errorPage{Status: ErrorStatusCode(prettyrfc.ErrorCode(err))}
	switch page.Status {
	case http.StatusNotFound:
		page.Title = "Not found"
		page.Message = prettyrfc.ErrorMessage(err)
	case http.StatusServiceUnavailable:
		page.Title = "Temporarily unavailable"
		page.Message = "The RFC archive is temporarily unavailable. Please try again later."
	case http.StatusBadRequest:
		page.Title = "Bad request"
		page.Message = prettyrfc.ErrorMessage(err)
	default:
		page.Title = "Internal error"
		page.Message = "An internal error has occurred."
		s.Logger.Error("request failed",
			"path", c.Request.URL.Path,
			"request_id", c.GetString(RequestIDKey),
			"err", err,
		)
	}
	_ = c.Error(err)
	c.HTML(page.Status, "error.html", page)
}

// codes maps error codes to HTTP status codes.
var codes = map[string]int{
	prettyrfc.EINVALID:     http.StatusBadRequest,
	prettyrfc.ENOTFOUND:    http.StatusNotFound,
	prettyrfc.EUNAVAILABLE: http.StatusServiceUnavailable,
	prettyrfc.ERENDER:      http.StatusInternalServerError,
	prettyrfc.EINTERNAL:    http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}
