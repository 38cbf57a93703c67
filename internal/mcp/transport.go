package mcp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"tally/internal/middleware/ratelimit"
	"tally/internal/middleware/security"
)

// ServeHTTP runs the streamable HTTP transport on addr (endpoint /mcp)
// behind security headers, anomaly checks, and per-client rate limiting.
// Cancelling the context shuts the server down cleanly.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	streamable := server.NewStreamableHTTPServer(s.mcp)

	detector := security.NewDetector()
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limiter := ratelimit.NewLimiter(ratelimit.DefaultConfig())
	defer limiter.Stop()

	guard := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if detector.DetectSuspiciousRequest(r) {
				s.logger.WarnContext(r.Context(), "Suspicious request rejected",
					"method", r.Method,
					"url", r.URL.Path,
					"client_ip", detector.ExtractClientIP(r))
				http.Error(w, "Bad request", http.StatusBadRequest)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	onLimit := func(w http.ResponseWriter, r *http.Request) {
		s.logger.WarnContext(r.Context(), "Rate limit exceeded",
			"client_ip", detector.ExtractClientIP(r),
			"url", r.URL.Path)
		w.Header().Set("Retry-After", "60")
		http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
	}
	limit := limiter.Middleware(detector.ExtractClientIP, onLimit)

	mux := http.NewServeMux()
	mux.Handle("/mcp", headers.Middleware(guard(limit(streamable))))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64KB
		// No WriteTimeout: the GET /mcp event stream stays open.
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
