// Package api exposes the scraper and the stored records over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"market-scraper/models"
	"market-scraper/storage"
	"market-scraper/utils"
)

// Runner performs one acquisition run.
type Runner interface {
	Run(ctx context.Context, startURL string, maxPages int) (models.RunResult, error)
}

// RecordReader is the read side of the record store.
type RecordReader interface {
	All(ctx context.Context) ([]*models.Record, error)
	ByURL(ctx context.Context, url string) (*models.Record, error)
}

// Options are the defaults applied to scrape requests.
type Options struct {
	DefaultURL   string
	DefaultPages int
	// RewriteURL maps the requested start URL to the one actually opened,
	// e.g. through a scraping proxy. Nil leaves it unchanged.
	RewriteURL func(string) string
}

type Server struct {
	runner Runner
	store  RecordReader
	opts   Options
	logger *utils.Logger

	// running is held for the duration of a scrape; runs never overlap.
	running sync.Mutex
}

func NewServer(runner Runner, store RecordReader, opts Options, logger *utils.Logger) *Server {
	return &Server{runner: runner, store: store, opts: opts, logger: logger}
}

// Handler returns the routes of the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.home)
	mux.HandleFunc("POST /scrape", s.scrape)
	mux.HandleFunc("GET /products", s.listProducts)
	mux.HandleFunc("GET /products/{url...}", s.getProduct)
	return mux
}

type scrapeRequest struct {
	URL      string `json:"url"`
	MaxPages int    `json:"max_pages"`
}

type statusResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Result  *models.RunResult `json:"result,omitempty"`
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Market Scraper API is running."})
}

func (s *Server) scrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: "invalid JSON body: " + err.Error()})
			return
		}
	}
	if req.URL == "" {
		req.URL = s.opts.DefaultURL
	}
	if req.MaxPages <= 0 {
		req.MaxPages = s.opts.DefaultPages
	}

	target := req.URL
	if s.opts.RewriteURL != nil {
		target = s.opts.RewriteURL(target)
	}

	if !s.running.TryLock() {
		s.logger.Warn("[api] Scrape rejected, a run is already active")
		writeJSON(w, http.StatusConflict, statusResponse{Status: "error", Message: "a scrape is already running"})
		return
	}
	defer s.running.Unlock()

	s.logger.Info("[api] Scrape requested: %s (max %d pages)", req.URL, req.MaxPages)
	res, err := s.runner.Run(r.Context(), target, req.MaxPages)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: "Scraping completed", Result: &res})
	case res.Status == models.RunCancelled:
		writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "error", Message: "Scraping cancelled: " + err.Error(), Result: &res})
	default:
		writeJSON(w, http.StatusBadGateway, statusResponse{Status: "error", Message: "Scraping aborted: " + err.Error(), Result: &res})
	}
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.All(r.Context())
	if err != nil {
		s.logger.Error("[api] Listing products: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Could not read products"})
		return
	}
	if records == nil {
		records = []*models.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	url := restoreScheme(r.PathValue("url"))
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}
	record, err := s.store.ByURL(r.Context(), url)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Product not found"})
		return
	}
	if err != nil {
		s.logger.Error("[api] Fetching product %s: %v", url, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Could not read product"})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// restoreScheme undoes path cleaning, which turns "https://host" into
// "https:/host" when a URL is embedded in the request path.
func restoreScheme(u string) string {
	for _, scheme := range []string{"https:/", "http:/"} {
		if strings.HasPrefix(u, scheme) && !strings.HasPrefix(u, scheme+"/") {
			return scheme + "/" + strings.TrimPrefix(u, scheme)
		}
	}
	return u
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
