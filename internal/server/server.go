// Package server exposes the prediction pipeline over HTTP, replacing the
// interactive form of the original tool. POST /predict takes a raw property
// record and returns the price estimate; GET /options serves the enumerations
// a form needs to render its inputs.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"immoval/internal/encode"
	"immoval/internal/ml"
)

// PricePredictor is the single capability the server needs from the ml layer.
type PricePredictor interface {
	Predict(rec encode.Record) (float64, error)
}

// Server serves the prediction HTTP API.
type Server struct {
	predictor PricePredictor
	server    *http.Server
}

// PredictRequest is the wire form of a raw property record. The outdoor area
// may arrive either pre-summed or split into terrace and garden, matching the
// original form inputs.
type PredictRequest struct {
	PropertyType     string  `json:"property_type"`
	Bedrooms         int     `json:"bedrooms"`
	KitchenEquipped  bool    `json:"kitchen_equipped"`
	State            string  `json:"state"`
	Facades          int     `json:"facades"`
	SwimmingPool     bool    `json:"swimming_pool"`
	Region           string  `json:"region"`
	Municipality     string  `json:"municipality"`
	LivingArea       float64 `json:"living_area"`
	TotalOutdoorArea *int    `json:"total_outdoor_area,omitempty"`
	TerraceArea      int     `json:"terrace_area,omitempty"`
	GardenArea       int     `json:"garden_area,omitempty"`
}

// PredictResponse is the prediction result.
type PredictResponse struct {
	Price          float64   `json:"price"`
	FormattedPrice string    `json:"formatted_price"`
	SizeCategory   string    `json:"size_category"`
	Latency        float64   `json:"latency_ms"`
	Timestamp      time.Time `json:"timestamp"`
}

// RegionOptions lists the municipalities selectable for one region.
type RegionOptions struct {
	Name           string   `json:"name"`
	Municipalities []string `json:"municipalities"`
}

// OptionsResponse carries every enumeration a client form needs.
type OptionsResponse struct {
	PropertyTypes []string        `json:"property_types"`
	States        []string        `json:"states"`
	Regions       []RegionOptions `json:"regions"`
}

type errorResponse struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// New creates the HTTP server on the given port. timeout bounds how long a
// single request may spend reading or writing; zero selects a 10s default.
func New(predictor PricePredictor, port int, timeout time.Duration) *Server {
	s := &Server{predictor: predictor}

	mux := http.NewServeMux()
	mux.HandleFunc("/predict", s.handlePredict)
	mux.HandleFunc("/options", s.handleOptions)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("starting prediction server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()

	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("invalid request: %v", err))
		return
	}

	price, err := s.predictor.Predict(req.toRecord())
	if err != nil {
		s.writePredictError(w, err)
		return
	}

	resp := PredictResponse{
		Price:          price,
		FormattedPrice: FormatPrice(price),
		SizeCategory:   encode.SizeCategory(req.LivingArea),
		Latency:        float64(time.Since(start).Milliseconds()),
		Timestamp:      time.Now(),
	}
	writeJSON(w, http.StatusOK, resp)
}

// toRecord builds the encoder record, summing terrace and garden areas when
// no pre-summed total is supplied.
func (req PredictRequest) toRecord() encode.Record {
	total := req.TerraceArea + req.GardenArea
	if req.TotalOutdoorArea != nil {
		total = *req.TotalOutdoorArea
	}
	return encode.Record{
		PropertyType:     req.PropertyType,
		Bedrooms:         req.Bedrooms,
		KitchenEquipped:  req.KitchenEquipped,
		State:            req.State,
		Facades:          req.Facades,
		SwimmingPool:     req.SwimmingPool,
		Region:           req.Region,
		Municipality:     req.Municipality,
		LivingArea:       req.LivingArea,
		TotalOutdoorArea: total,
	}
}

func (s *Server) writePredictError(w http.ResponseWriter, err error) {
	var lookupErr *encode.LookupError
	var domainErr *encode.DomainError

	switch {
	case errors.As(err, &lookupErr):
		writeError(w, http.StatusBadRequest, "lookup_error", lookupErr.Error())
	case errors.As(err, &domainErr):
		writeError(w, http.StatusBadRequest, "domain_error", domainErr.Error())
	default:
		var predErr *ml.PredictionError
		if !errors.As(err, &predErr) {
			log.Error().Err(err).Msg("unexpected prediction failure")
		}
		writeError(w, http.StatusInternalServerError, "prediction_error", err.Error())
	}
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	regions := encode.Regions()
	resp := OptionsResponse{
		PropertyTypes: encode.PropertyTypes(),
		States:        encode.States(),
		Regions:       make([]RegionOptions, 0, len(regions)),
	}
	for _, region := range regions {
		resp.Regions = append(resp.Regions, RegionOptions{
			Name:           region,
			Municipalities: encode.MunicipalitiesIn(region),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorResponse{Kind: kind, Error: msg})
}
