package http

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/domain"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/pipeline"
)

const maxBodyBytes = 1 << 20

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Predictor runs one prediction request across all loaded models.
type Predictor interface {
	Predict(ctx context.Context, features domain.FeatureVector) (pipeline.Outcome, error)
	Models() []string
}

// Server exposes the prediction form, the JSON API, and health, readiness,
// and metrics endpoints.
type Server struct {
	httpServer *http.Server
	predictor  Predictor
	logger     *slog.Logger
}

// NewServer creates an HTTP server with UI, /api/v1, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, predictor Predictor, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		predictor: predictor,
		logger:    logger,
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /predict", s.handlePredictForm)
	mux.HandleFunc("POST /api/v1/predict", s.handlePredictAPI)
	mux.HandleFunc("GET /api/v1/alerts", handleAlerts)
	mux.HandleFunc("GET /api/v1/models", s.handleModels)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// --- UI ---

type fieldView struct {
	domain.FeatureSpec
	Value float64
}

type pageData struct {
	Fields    []fieldView
	Models    []string
	Outcome   *pipeline.Outcome
	AlertRefs []domain.Alert
	Error     string
}

func (s *Server) newPage(features domain.FeatureVector) pageData {
	values := features.Row()
	fields := make([]fieldView, len(domain.FeatureSpecs))
	for i, spec := range domain.FeatureSpecs {
		fields[i] = fieldView{FeatureSpec: spec, Value: values[i]}
	}
	return pageData{Fields: fields, Models: s.predictor.Models()}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.renderPage(w, http.StatusOK, s.newPage(domain.DefaultFeatureVector()))
}

func (s *Server) handlePredictForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		page := s.newPage(domain.DefaultFeatureVector())
		page.Error = "Could not read the submitted form."
		s.renderPage(w, http.StatusBadRequest, page)
		return
	}

	features, err := parseFeatureForm(r)
	if err != nil {
		page := s.newPage(domain.DefaultFeatureVector())
		page.Error = err.Error()
		s.renderPage(w, http.StatusBadRequest, page)
		return
	}
	features = features.Clamp()

	page := s.newPage(features)
	outcome, err := s.predictor.Predict(r.Context(), features)
	if err != nil {
		status := predictionStatus(err)
		s.logger.Warn("form prediction failed", "error", err, "status", status)
		page.Error = "Prediction failed: " + err.Error()
		s.renderPage(w, status, page)
		return
	}

	page.Outcome = &outcome
	page.AlertRefs = domain.AlertTable()
	s.renderPage(w, http.StatusOK, page)
}

// parseFeatureForm reads the five inputs; blank fields take their defaults.
func parseFeatureForm(r *http.Request) (domain.FeatureVector, error) {
	values := domain.DefaultFeatureVector().Row()
	for i, spec := range domain.FeatureSpecs {
		raw := r.PostForm.Get(spec.Field)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.FeatureVector{}, fmt.Errorf("%s must be a number, got %q", spec.Label, raw)
		}
		values[i] = v
	}
	return domain.FeatureVector{
		Magnitude: values[0],
		DepthKm:   values[1],
		CDI:       values[2],
		MMI:       values[3],
		Sig:       values[4],
	}, nil
}

func (s *Server) renderPage(w http.ResponseWriter, status int, page pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.ExecuteTemplate(w, "index.html", page); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// --- JSON API ---

type predictResponse struct {
	RequestID string                    `json:"request_id"`
	Features  domain.FeatureVector      `json:"features"`
	Results   []domain.PredictionResult `json:"results"`
}

func (s *Server) handlePredictAPI(w http.ResponseWriter, r *http.Request) {
	features := domain.DefaultFeatureVector()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&features); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid feature vector: " + err.Error()})
		return
	}

	outcome, err := s.predictor.Predict(r.Context(), features)
	if err != nil {
		status := predictionStatus(err)
		s.logger.Warn("api prediction failed", "error", err, "status", status)
		sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	sharedobs.WriteJSON(w, http.StatusOK, predictResponse{
		RequestID: outcome.RequestID,
		Features:  outcome.Features,
		Results:   outcome.Results,
	})
}

func handleAlerts(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, map[string][]domain.Alert{"alerts": domain.AlertTable()})
}

func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, map[string][]string{"models": s.predictor.Models()})
}

// predictionStatus maps classifier rejections to 422 and anything else to 500.
func predictionStatus(err error) int {
	var predErr *domain.PredictionError
	if errors.As(err, &predErr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
