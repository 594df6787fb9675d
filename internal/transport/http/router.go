// SPDX-License-Identifier: Apache-2.0

package httptransport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rloggen/rloggen/internal/generator"
	"github.com/rloggen/rloggen/internal/metrics"
	"github.com/rloggen/rloggen/internal/pattern"
	"github.com/rloggen/rloggen/internal/provider"
	"github.com/rloggen/rloggen/internal/transport/middleware"
	"github.com/rloggen/rloggen/internal/winevent"
)

// maxGenerateCount caps how many records one /generate call may ask for.
const maxGenerateCount = 100

// maxGenerateBody caps the accepted pattern document size.
const maxGenerateBody = 1 << 20

type patternSummary struct {
	Name      string `json:"name"`
	Generator string `json:"generator"`
	Enabled   bool   `json:"enabled"`
	Rate      int    `json:"rate"`
}

type Deps struct {
	Patterns            PatternSource
	Registry            *provider.Registry
	Logger              *slog.Logger
	AdminToken          string
	GenerateLimitPerMin int
	Version             string
	Commit              string
	BuildDate           string
}

func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := deps.Registry
	if registry == nil {
		registry = provider.NewRegistry()
	}
	metrics.Init()
	version := valueOrDefault(deps.Version, "dev")
	commit := valueOrDefault(deps.Commit, "none")
	buildDate := valueOrDefault(deps.BuildDate, "unknown")
	generateLimit := deps.GenerateLimitPerMin
	if generateLimit <= 0 {
		generateLimit = 60
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware())
	r.Use(requestLoggingMiddleware(logger))

	// ---------------- HEALTH ----------------

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("health check hit")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// ---------------- METRICS ----------------

	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// ---------------- VERSION ----------------

	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version":    version,
			"commit":     commit,
			"build_date": buildDate,
		})
	})

	// ---------------- PATTERNS ----------------

	if deps.Patterns != nil {
		r.Get("/patterns", func(w http.ResponseWriter, r *http.Request) {
			loaded := deps.Patterns.List()
			summaries := make([]patternSummary, 0, len(loaded))
			for _, p := range loaded {
				summaries = append(summaries, patternSummary{
					Name:      p.Name,
					Generator: p.Generator,
					Enabled:   p.Enabled,
					Rate:      p.Rate,
				})
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"patterns": summaries,
			})
		})

		r.Group(func(admin chi.Router) {
			admin.Use(middleware.AdminTokenAuth(deps.AdminToken, logger))

			admin.Post("/patterns/reload", func(w http.ResponseWriter, r *http.Request) {
				if err := deps.Patterns.Reload(); err != nil {
					logger.Error("pattern reload failed", "error", err)
					http.Error(w, "failed to reload patterns", http.StatusInternalServerError)
					return
				}
				metrics.IncPatternReload()
				logger.Info("patterns reloaded via API", "count", len(deps.Patterns.List()))
				w.WriteHeader(http.StatusNoContent)
			})
		})
	}

	// ---------------- ON-DEMAND GENERATION ----------------

	r.Group(func(gen chi.Router) {
		gen.Use(middleware.RequestRateLimit(generateLimit, logger))

		gen.Post("/generate", func(w http.ResponseWriter, r *http.Request) {
			count, err := generateCount(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, maxGenerateBody))
			if err != nil {
				http.Error(w, "failed to read request body", http.StatusBadRequest)
				return
			}

			p, err := pattern.Parse(body)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			g, err := generator.New(p, generator.Deps{Logger: logger, Registry: registry})
			if err != nil {
				var verr *winevent.ValidationError
				if !errors.As(err, &verr) {
					logger.Error("generator construction failed", "pattern", p.Name, "error", err)
				}
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			records := make([]string, 0, count)
			for i := 0; i < count; i++ {
				record, err := g.Generate()
				if err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				records = append(records, record)
			}

			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(strings.Join(records, "\n")))
		})
	})

	return r
}

func generateCount(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("count"))
	if raw == "" {
		return 1, nil
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count < 1 {
		return 0, errors.New("count must be a positive integer")
	}
	if count > maxGenerateCount {
		return 0, errors.New("count exceeds the maximum of " + strconv.Itoa(maxGenerateCount))
	}
	return count, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func valueOrDefault(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}
