// Package httphandler is the JSON API driving adapter for the site's
// newsletter and GitHub stats endpoints.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/basalt-site/internal/application"
	"github.com/ericfisherdev/basalt-site/internal/domain/port/driven"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Response messages. The site's client code matches on some of these.
const (
	msgSubscribed          = "Successfully subscribed to newsletter"
	msgAlreadySubscribed   = "Email already subscribed"
	msgInvalidEmail        = "Invalid email address"
	msgSubscribeFailed     = "Failed to subscribe to newsletter"
	msgStatsFetchFailed    = "Failed to fetch GitHub stats"
	msgStatsNotFound       = "Repository stats not found"
	msgInvalidStatsPayload = "Invalid stats payload"
	msgStatsUpdateFailed   = "Failed to update GitHub stats"
	msgUpstreamFailed      = "Failed to fetch repository data from GitHub"
	msgInvalidRepository   = "Invalid repository"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	statsSvc      *application.StatsService
	newsletterSvc *application.NewsletterService
	logger        *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	statsSvc *application.StatsService,
	newsletterSvc *application.NewsletterService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		statsSvc:      statsSvc,
		newsletterSvc: newsletterSvc,
		logger:        logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with CORS, logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/newsletter/subscribe", h.Subscribe)
	mux.HandleFunc("GET /api/github/stats", h.ListStats)
	mux.HandleFunc("GET /api/github/stats/{repository}", h.GetStats)
	mux.HandleFunc("GET /api/github/stats/{owner}/{name}", h.GetStats)
	mux.HandleFunc("POST /api/github/stats/update", h.UpdateStats)
	mux.HandleFunc("GET /api/github/fetch/{owner}/{repo}", h.FetchStats)
	mux.HandleFunc("GET /api/github/summary", h.Summary)
	mux.HandleFunc("GET /api/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = corsMiddleware(allowedOrigins, wrapped)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Subscribe records a newsletter signup. Repeat signups succeed and return
// the original subscription.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, SubscribeResponse{Success: false, Message: msgInvalidEmail})
		return
	}

	sub, created, err := h.newsletterSvc.Subscribe(r.Context(), req.Email)
	if err != nil {
		var ve *application.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, SubscribeResponse{Success: false, Message: msgInvalidEmail})
			return
		}
		h.logger.Error("failed to subscribe to newsletter", "error", err)
		writeJSON(w, http.StatusInternalServerError, SubscribeResponse{Success: false, Message: msgSubscribeFailed})
		return
	}

	message := msgSubscribed
	if !created {
		message = msgAlreadySubscribed
	}

	writeJSON(w, http.StatusOK, SubscribeResponse{
		Success:      true,
		Message:      message,
		Subscription: toSubscriptionResponse(sub),
	})
}

// ListStats returns every cached stats record.
func (h *Handler) ListStats(w http.ResponseWriter, r *http.Request) {
	records, err := h.statsSvc.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list stats", "error", err)
		writeError(w, http.StatusInternalServerError, msgStatsFetchFailed)
		return
	}

	writeJSON(w, http.StatusOK, toStatRecordResponses(records))
}

// GetStats returns the cached record for one repository. The key arrives
// either as one escaped segment ("owner%2Fname") or as two segments.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	repository := r.PathValue("repository")
	if repository == "" {
		repository = r.PathValue("owner") + "/" + r.PathValue("name")
	}

	rec, err := h.statsSvc.Get(r.Context(), repository)
	if err != nil {
		if errors.Is(err, driven.ErrStatsNotFound) {
			writeError(w, http.StatusNotFound, msgStatsNotFound)
			return
		}
		h.logger.Error("failed to get stats", "repo", repository, "error", err)
		writeError(w, http.StatusInternalServerError, msgStatsFetchFailed)
		return
	}

	writeJSON(w, http.StatusOK, toStatRecordResponse(rec))
}

// UpdateStats upserts caller-supplied stats for a repository.
func (h *Handler) UpdateStats(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidStatsPayload)
		return
	}

	rec, err := h.statsSvc.Update(r.Context(), req.Repository, req.Stars, req.Forks)
	if err != nil {
		var ve *application.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, msgInvalidStatsPayload)
			return
		}
		h.logger.Error("failed to update stats", "repo", req.Repository, "error", err)
		writeError(w, http.StatusInternalServerError, msgStatsUpdateFailed)
		return
	}

	writeJSON(w, http.StatusOK, toStatRecordResponse(rec))
}

// FetchStats pulls live stats from GitHub, caches them and returns them.
// Upstream 4xx/5xx statuses are passed through; anything else is a 500.
func (h *Handler) FetchStats(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")
	repo := r.PathValue("repo")

	rec, err := h.statsSvc.Refresh(r.Context(), owner, repo)
	if err != nil {
		var ve *application.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, msgInvalidRepository)
			return
		}

		status := http.StatusInternalServerError
		var upstream *driven.UpstreamError
		if errors.As(err, &upstream) && upstream.Status >= 400 && upstream.Status <= 599 {
			status = upstream.Status
		}

		h.logger.Error("failed to fetch github stats", "owner", owner, "repo", repo, "status", status, "error", err)
		writeError(w, status, msgUpstreamFailed)
		return
	}

	writeJSON(w, http.StatusOK, FetchResponse{
		Repository: rec.Repository,
		Stars:      rec.Stars,
		Forks:      rec.Forks,
	})
}

// Summary returns the derived display metrics for the tracked repositories.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.statsSvc.Summary(r.Context())
	if err != nil {
		h.logger.Error("failed to summarise stats", "error", err)
		writeError(w, http.StatusInternalServerError, msgStatsFetchFailed)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
