package handlers

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const readyTimeout = 2 * time.Second

// hashToken creates a SHA256 hash of a token so raw tokens are never compared
// or kept in memory.
func hashToken(token string) string {
	h := sha256.New()
	h.Write([]byte(token))
	return hex.EncodeToString(h.Sum(nil))
}

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready pings every configured store concurrently
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		checks = map[string]bool{}
		g      errgroup.Group
	)
	check := func(name string, ping func(context.Context) error) {
		g.Go(func() error {
			err := ping(ctx)
			if err != nil {
				h.logger.Warnw("Readiness check failed", "dependency", name, "error", err)
			}
			mu.Lock()
			checks[name] = err == nil
			mu.Unlock()
			return nil
		})
	}

	if h.redis != nil {
		check("redis", func(ctx context.Context) error { return h.redis.Ping(ctx).Err() })
	}
	if h.ch != nil {
		check("clickhouse", h.ch.Ping)
	}
	if h.pg != nil {
		check("postgres", h.pg.Ping)
	}
	g.Wait()

	allHealthy := true
	for _, ok := range checks {
		if !ok {
			allHealthy = false
			break
		}
	}

	body := map[string]interface{}{
		"ready":  allHealthy,
		"checks": checks,
		"model":  h.prediction.ModelName(),
	}
	if h.audit != nil {
		body["queueDepth"] = h.audit.QueueDepth()
	}

	status := http.StatusOK
	if !allHealthy {
		status = http.StatusServiceUnavailable
	}
	h.jsonResponse(w, status, body)
}

// AdminAuthMiddleware validates the admin token. Admin routes are disabled
// when no token is configured.
func (h *Handler) AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.adminHash == "" {
			h.errorResponse(w, http.StatusForbidden, "Admin endpoints are disabled")
			return
		}

		token := r.Header.Get("X-Admin-Token")
		if token == "" {
			token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		if token == "" {
			h.errorResponse(w, http.StatusUnauthorized, "Missing admin token")
			return
		}

		if subtle.ConstantTimeCompare([]byte(hashToken(token)), []byte(h.adminHash)) != 1 {
			h.logger.Warnw("Invalid admin token", "remote", r.RemoteAddr)
			h.errorResponse(w, http.StatusUnauthorized, "Invalid admin token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}
