package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/agbru/friedmann/internal/config"
	"github.com/agbru/friedmann/internal/cosmo"
	apperrors "github.com/agbru/friedmann/internal/errors"
	"github.com/agbru/friedmann/internal/logging"
	"github.com/agbru/friedmann/internal/plot"
)

// DefaultPoints is the number of samples /api/solve returns when the request
// does not say.
const DefaultPoints = 500

// Bounds of the PNG size accepted by /api/plot.png.
const (
	minImageSide = 200
	maxImageSide = 4096
)

// componentParams maps query parameters to the density they set, in the
// order they are applied. ΩK is applied after ΩR and ΩM, before ΩΛ.
var componentParams = []struct {
	key       string
	component cosmo.Component
}{
	{"omega_r", cosmo.Radiation},
	{"omega_m", cosmo.Matter},
	{"omega_k", cosmo.Curvature},
	{"omega_l", cosmo.DarkEnergy},
}

var scalarParams = []string{"w", "h0", "epsilon"}

// badRequest marks errors caused by the query string.
type badRequest struct{ error }

func badRequestf(format string, a ...any) error {
	return badRequest{fmt.Errorf(format, a...)}
}

// requestConfig applies the query parameters to a copy of the base
// configuration.
func (s *Server) requestConfig(q url.Values) (config.AppConfig, error) {
	cfg := s.base
	if name := q.Get("preset"); name != "" {
		if name == config.AllPresets {
			return cfg, badRequestf("preset %q is not available over HTTP", name)
		}
		if err := cfg.SelectPreset(name); err != nil {
			return cfg, badRequest{err}
		}
	}
	for _, p := range componentParams {
		if !q.Has(p.key) {
			continue
		}
		v, err := parseFloatParam(q, p.key)
		if err != nil {
			return cfg, err
		}
		if err := cfg.SetComponent(p.component, v); err != nil {
			return cfg, badRequest{err}
		}
	}
	for _, key := range scalarParams {
		if !q.Has(key) {
			continue
		}
		v, err := parseFloatParam(q, key)
		if err != nil {
			return cfg, err
		}
		if key == "epsilon" && v < s.security.MinEpsilon {
			return cfg, badRequestf("epsilon must be at least %g", s.security.MinEpsilon)
		}
		if err := cfg.SetParameter(key, v); err != nil {
			return cfg, badRequest{err}
		}
	}
	if limit := s.security.MaxSteps; limit > 0 && (cfg.MaxSteps <= 0 || cfg.MaxSteps > limit) {
		cfg.MaxSteps = limit
	}
	return cfg, nil
}

func parseFloatParam(q url.Values, key string) (float64, error) {
	v, err := strconv.ParseFloat(q.Get(key), 64)
	if err != nil {
		return 0, badRequestf("invalid %s: %q", key, q.Get(key))
	}
	return v, nil
}

func parseIntParam(q url.Values, key string, def, lo, hi int) (int, error) {
	if !q.Has(key) {
		return def, nil
	}
	v, err := strconv.Atoi(q.Get(key))
	if err != nil || v < lo || v > hi {
		return 0, badRequestf("%s must be an integer in [%d, %d]", key, lo, hi)
	}
	return v, nil
}

// solve integrates the model of cfg under the configured timeout and
// records the metrics of the run.
func (s *Server) solve(ctx context.Context, cfg config.AppConfig) (*cosmo.Solution, error) {
	m, err := cfg.Model()
	if err != nil {
		return nil, badRequest{err}
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	start := time.Now()
	sol, err := s.solver.Solve(ctx, m, cfg.ToOptions(), nil)
	duration := time.Since(start)
	steps := 0
	if sol != nil {
		steps = sol.Steps.Total()
	}
	s.metrics.ObserveSolve(duration, steps, err)

	fields := []logging.Field{
		logging.String("request_id", RequestID(ctx)),
		logging.String("model", m.Name),
		logging.String("duration", duration.String()),
	}
	if err != nil {
		s.logger.Error("solve failed", err, fields...)
		return nil, err
	}
	s.logger.Debug("solve done", append(fields, logging.Int("steps", steps))...)
	if sol.Truncated {
		s.logger.Warn("integration truncated", fields...)
	}
	return sol, nil
}

// writeSolveError maps an error of requestConfig or solve to a status code.
func (s *Server) writeSolveError(w http.ResponseWriter, err error) {
	var br badRequest
	var cfgErr apperrors.ConfigError
	switch {
	case errors.As(err, &br), errors.As(err, &cfgErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "integration timed out")
	case errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "request canceled")
	default:
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	}
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	if !s.allowGet(w, r) {
		return
	}
	q := r.URL.Query()
	points, err := parseIntParam(q, "points", DefaultPoints, 2, s.security.MaxPoints)
	if err != nil {
		s.writeSolveError(w, err)
		return
	}
	cfg, err := s.requestConfig(q)
	if err != nil {
		s.writeSolveError(w, err)
		return
	}
	sol, err := s.solve(r.Context(), cfg)
	if err != nil {
		s.writeSolveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sol.Summary(points))
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	if !s.allowGet(w, r) {
		return
	}
	q := r.URL.Query()
	width, err := parseIntParam(q, "width", plot.DefaultWidth, minImageSide, maxImageSide)
	if err != nil {
		s.writeSolveError(w, err)
		return
	}
	height, err := parseIntParam(q, "height", plot.DefaultHeight, minImageSide, maxImageSide)
	if err != nil {
		s.writeSolveError(w, err)
		return
	}
	cfg, err := s.requestConfig(q)
	if err != nil {
		s.writeSolveError(w, err)
		return
	}
	sol, err := s.solve(r.Context(), cfg)
	if err != nil {
		s.writeSolveError(w, err)
		return
	}
	fig, err := plot.NewFigure(sol)
	if err != nil {
		s.writeSolveError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := plot.RenderPNG(&buf, fig, plot.Size{Width: width, Height: height}); err != nil {
		s.logger.Error("png rendering failed", err, logging.String("request_id", RequestID(r.Context())))
		writeError(w, http.StatusInternalServerError, "rendering failed")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// presetResponse describes one catalog entry.
type presetResponse struct {
	cosmo.Model
	Description string  `json:"description"`
	OmegaK      float64 `json:"omega_k"`
	Geometry    string  `json:"geometry"`
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	if !s.allowGet(w, r) {
		return
	}
	presets := s.base.Catalog.Presets()
	out := make([]presetResponse, len(presets))
	for i, p := range presets {
		out[i] = presetResponse{
			Model:       p.Model,
			Description: p.Description,
			OmegaK:      p.Model.OmegaK(),
			Geometry:    p.Model.Geometry(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.allowGet(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !s.allowGet(w, r) {
		return
	}
	s.metrics.WritePrometheus(w, r)
}
