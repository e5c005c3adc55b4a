// Package web serves the high-score list and run history over HTTP.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/raven-flight/internal/scores"
	"github.com/vovakirdan/raven-flight/internal/storage"
)

const (
	maxBodyBytes = 4 << 10
	defaultLimit = 20
	maxLimit     = 200
)

// History lists runs and aggregates them. *storage.Store implements it.
type History interface {
	RecentRuns(ctx context.Context, variant string, limit int) ([]storage.Run, error)
	Stats(ctx context.Context, variant string) (*storage.Stats, error)
}

// NewRouter returns the HTTP API. history may be nil, in which case the
// run endpoints are not mounted.
func NewRouter(board *scores.Board, history History, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	h := &handler{board: board, history: history, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/scores", h.listScores)
		r.Post("/scores", h.saveScore)
		r.Get("/scores/qualifies/{score}", h.qualifies)

		if history != nil {
			r.Get("/runs", h.listRuns)
			r.Get("/stats", h.stats)
		}

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	return r
}

type handler struct {
	board   *scores.Board
	history History
	logger  *log.Logger
}

// scoreRequest is the body of POST /api/scores.
type scoreRequest struct {
	Name  string `json:"name"`
	Score *int   `json:"score"`
}

// runResponse is one finished run.
type runResponse struct {
	ID         string    `json:"id"`
	Variant    string    `json:"variant"`
	Name       string    `json:"name"`
	Score      int       `json:"score"`
	Cause      string    `json:"cause"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

type statsResponse struct {
	Variant      string     `json:"variant"`
	Runs         int        `json:"runs"`
	HighScore    int        `json:"high_score"`
	AvgScore     float64    `json:"avg_score"`
	TotalScore   int64      `json:"total_score"`
	FlightTimeMS int64      `json:"flight_time_ms"`
	LastPlayed   *time.Time `json:"last_played,omitempty"`
}

func (h *handler) listScores(w http.ResponseWriter, r *http.Request) {
	list := h.board.Load(r.Context())
	if list == nil {
		list = []scores.Entry{}
	}
	respondJSON(w, h.logger, http.StatusOK, list)
}

func (h *handler) saveScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Score == nil || *req.Score < 0 {
		respondError(w, h.logger, http.StatusBadRequest, "score must be a non-negative integer")
		return
	}

	list, err := h.board.Save(r.Context(), req.Name, *req.Score)
	if err != nil {
		h.logger.Error("cannot save score", "error", err)
		respondError(w, h.logger, http.StatusInternalServerError, "could not save score")
		return
	}
	respondJSON(w, h.logger, http.StatusOK, list)
}

func (h *handler) qualifies(w http.ResponseWriter, r *http.Request) {
	score, err := strconv.Atoi(chi.URLParam(r, "score"))
	if err != nil || score < 0 {
		respondError(w, h.logger, http.StatusBadRequest, "invalid score")
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]bool{"qualifies": h.board.Qualifies(r.Context(), score)})
}

func (h *handler) listRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, h.logger, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxLimit)
	}

	runs, err := h.history.RecentRuns(r.Context(), strings.TrimSpace(r.URL.Query().Get("variant")), limit)
	if err != nil {
		h.logger.Error("cannot list runs", "error", err)
		respondError(w, h.logger, http.StatusInternalServerError, "could not list runs")
		return
	}

	out := make([]runResponse, len(runs))
	for i, run := range runs {
		out[i] = runResponse{
			ID:         run.ID,
			Variant:    run.Variant,
			Name:       run.Name,
			Score:      run.Score,
			Cause:      run.Cause,
			DurationMS: run.Duration.Milliseconds(),
			CreatedAt:  run.CreatedAt,
		}
	}
	respondJSON(w, h.logger, http.StatusOK, out)
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	variant := strings.TrimSpace(r.URL.Query().Get("variant"))
	if variant == "" {
		respondError(w, h.logger, http.StatusBadRequest, "variant is required")
		return
	}
	st, err := h.history.Stats(r.Context(), variant)
	if err != nil {
		h.logger.Error("cannot compute stats", "error", err)
		respondError(w, h.logger, http.StatusInternalServerError, "could not compute stats")
		return
	}

	resp := statsResponse{
		Variant:      st.Variant,
		Runs:         st.Runs,
		HighScore:    st.HighScore,
		AvgScore:     st.AvgScore,
		TotalScore:   st.TotalScore,
		FlightTimeMS: st.FlightTime.Milliseconds(),
	}
	if !st.LastPlayed.IsZero() {
		resp.LastPlayed = &st.LastPlayed
	}
	respondJSON(w, h.logger, http.StatusOK, resp)
}

// requestLogger logs one line per request.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"elapsed", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, logger *log.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("cannot encode response", "error", err)
	}
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, logger *log.Logger, status int, message string) {
	respondJSON(w, logger, status, map[string]string{"error": message})
}

// Server wraps http.Server with the router mounted.
type Server struct {
	srv    *http.Server
	logger *log.Logger
}

// NewServer creates a server listening on addr.
func NewServer(addr string, board *scores.Board, history History, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(board, history, logger),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// ListenAndServe blocks until the server stops. A clean shutdown is not
// reported as an error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting web server", "address", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for active ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
