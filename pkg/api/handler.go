package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/hazyhaar/salary-registry/pkg/category"
	"github.com/hazyhaar/salary-registry/pkg/kit"
)

// maxBody bounds POST bodies.
const maxBody = 64 * 1024

// Config wires the router's dependencies. MCP, when set, is mounted at /mcp.
// A positive RateLimit caps requests per second across all clients; the
// health check is exempt.
type Config struct {
	Catalog    Catalog
	Classifier *category.Classifier
	Logger     *slog.Logger
	MCP        http.Handler
	RateLimit  float64
	RateBurst  int
}

// NewRouter returns an http.Handler with all API routes.
func NewRouter(cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Classifier == nil {
		cfg.Classifier = category.New(category.WithLogger(cfg.Logger))
	}
	ep := newEndpoints(cfg.Catalog, cfg.Classifier, cfg.Logger)
	h := &handler{cat: cfg.Catalog}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/search", kit.HTTPHandler(ep.search, decodeSearch))
	mux.HandleFunc("GET /v1/search/best", kit.HTTPHandler(ep.best, decodeSearch))
	mux.HandleFunc("GET /v1/classify/batch", methodNotAllowed)
	mux.HandleFunc("POST /v1/classify/batch", kit.HTTPHandler(ep.classifyBatch, decodeClassifyBatch))
	mux.HandleFunc("GET /v1/classify/{title}", kit.HTTPHandler(ep.classify, decodeClassify))
	mux.HandleFunc("GET /v1/countries", kit.HTTPHandler(ep.countries, decodeNothing))
	mux.HandleFunc("GET /v1/related/{country}", kit.HTTPHandler(ep.related, decodeRelated))
	mux.HandleFunc("GET /v1/health", h.handleHealth)
	if cfg.MCP != nil {
		mux.Handle("/mcp", cfg.MCP)
	}

	var root http.Handler = mux
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = int(cfg.RateLimit) + 1
		}
		root = rateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), burst), root)
	}
	return requestID(accessLog(cfg.Logger, cors(root)))
}

type handler struct {
	cat Catalog
}

// --- decoders ---

func queryLimit(r *http.Request) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, kit.InvalidRequest("invalid limit %q", v)
	}
	return n, nil
}

func decodeSearch(r *http.Request) (any, error) {
	limit, err := queryLimit(r)
	if err != nil {
		return nil, err
	}
	q := r.URL.Query()
	return &searchReq{Country: q.Get("country"), Query: q.Get("q"), Limit: limit}, nil
}

func decodeClassify(r *http.Request) (any, error) {
	return &classifyReq{Title: r.PathValue("title")}, nil
}

type httpBatchRequest struct {
	Titles []string `json:"titles"`
}

func decodeClassifyBatch(r *http.Request) (any, error) {
	var req httpBatchRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&req); err != nil {
		return nil, kit.InvalidRequest("invalid JSON body")
	}
	return &classifyBatchReq{Titles: req.Titles}, nil
}

func decodeRelated(r *http.Request) (any, error) {
	limit, err := queryLimit(r)
	if err != nil {
		return nil, err
	}
	return &relatedReq{
		Country: r.PathValue("country"),
		Title:   r.URL.Query().Get("title"),
		Limit:   limit,
	}, nil
}

func decodeNothing(*http.Request) (any, error) { return nil, nil }

// --- health ---

type healthResponse struct {
	Status       string `json:"status"`
	Datasets     int    `json:"datasets"`
	TotalRecords int    `json:"total_records"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, healthResponse{
		Status:       "ok",
		Datasets:     h.cat.DatasetCount(),
		TotalRecords: h.cat.TotalRecords(),
	})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	kit.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// --- middleware ---

// requestID propagates X-Request-ID, generating one when absent.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" || len(id) > 64 {
			id = kit.NewRequestID()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(kit.WithRequestID(r.Context(), id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses (MCP) working through the recorder.
func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func accessLog(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", kit.GetRequestID(r.Context()),
		)
	})
}

// rateLimit rejects requests with 429 once lim is exhausted.
func rateLimit(lim *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/health" && !lim.Allow() {
			w.Header().Set("Retry-After", "1")
			kit.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID, Mcp-Session-Id")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
