package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"contas/internal/core"
	"contas/internal/ledger"
	"contas/internal/receipt"
)

type Server struct {
	http.Server
	store       *ledger.Store
	advisor     Advisor
	receipts    ReceiptParser
	rateLimiter *rateLimiter
}

// Advisor produces the monthly text analysis. Nil when no API key is
// configured; the endpoint then answers 503.
type Advisor interface {
	MonthlyAdvice(ctx context.Context, summary ledger.MonthlySummary, txs []core.Transaction) string
}

// ReceiptParser extracts a draft transaction from a receipt image.
type ReceiptParser interface {
	Parse(ctx context.Context, image []byte, mimeType string) (receipt.Guess, error)
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}

// NewServer configures the JSON API routes and returns a ready-to-run
// http.Server. advisor and receipts may be nil; their endpoints then
// answer 503.
func NewServer(addr string, store *ledger.Store, advisor Advisor, receipts ReceiptParser) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:       store,
		advisor:     advisor,
		receipts:    receipts,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("POST /transactions", s.withSecurityHeaders(s.handleCreateTransaction))
	mux.HandleFunc("GET /transactions", s.withSecurityHeaders(s.handleListTransactions))
	mux.HandleFunc("PATCH /transactions/{id}", s.withSecurityHeaders(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /transactions/{id}", s.withSecurityHeaders(s.handleDeleteTransaction))
	mux.HandleFunc("POST /transactions/{id}/toggle", s.withSecurityHeaders(s.handleToggleTransaction))

	mux.HandleFunc("GET /summary", s.withSecurityHeaders(s.handleSummary))
	mux.HandleFunc("GET /pending", s.withSecurityHeaders(s.handlePending))
	mux.HandleFunc("GET /invoices", s.withSecurityHeaders(s.handleInvoices))
	mux.HandleFunc("GET /forecast", s.withSecurityHeaders(s.handleForecast))

	mux.HandleFunc("GET /cards", s.withSecurityHeaders(s.handleListCards))
	mux.HandleFunc("POST /cards", s.withSecurityHeaders(s.handleCreateCard))
	mux.HandleFunc("DELETE /cards/{id}", s.withSecurityHeaders(s.handleDeleteCard))
	mux.HandleFunc("GET /accounts", s.withSecurityHeaders(s.handleListAccounts))
	mux.HandleFunc("POST /accounts", s.withSecurityHeaders(s.handleCreateAccount))
	mux.HandleFunc("PATCH /accounts/{id}", s.withSecurityHeaders(s.handleUpdateAccount))
	mux.HandleFunc("DELETE /accounts/{id}", s.withSecurityHeaders(s.handleDeleteAccount))
	mux.HandleFunc("GET /categories", s.withSecurityHeaders(s.handleListCategories))
	mux.HandleFunc("POST /categories", s.withSecurityHeaders(s.handleCreateCategory))
	mux.HandleFunc("DELETE /categories/{id}", s.withSecurityHeaders(s.handleDeleteCategory))

	mux.HandleFunc("GET /advice", s.withSecurityHeaders(s.handleAdvice))
	mux.HandleFunc("POST /receipts", s.withSecurityHeaders(s.handleReceipt))

	return s
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.rateLimiter != nil {
		s.rateLimiter.stop()
	}
	return s.Server.Shutdown(ctx)
}

// withSecurityHeaders adds security headers, rate limiting, and request logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
