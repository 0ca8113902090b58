package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/aggregate"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/export"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/model"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/region"
)

type boundaryRequest struct {
	Geometry json.RawMessage `json:"geometry"`
}

type boundaryResponse struct {
	Message     string               `json:"message"`
	TotalValue  float64              `json:"total_value"`
	ParcelCount int                  `json:"parcel_count"`
	Parcels     []model.ParcelDetail `json:"parcels"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sn := s.snapshot(r.Context())
	if sn == nil {
		http.Error(w, "Error: Parcel data could not be loaded or is empty. Please check server logs.",
			http.StatusInternalServerError)
		return
	}

	lat, lng := export.MapCenter(sn.Dataset.Parcels)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := export.RenderDrawPage(w, lat, lng); err != nil {
		zap.L().Error("server: render index", zap.Error(err))
	}
}

func (s *Server) handleProcessBoundary(w http.ResponseWriter, r *http.Request) {
	var req boundaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Geometry) == 0 || string(req.Geometry) == "null" {
		s.metrics.BoundaryQueries.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, "No geometry data received")
		return
	}

	sn := s.snapshot(r.Context())
	if sn == nil || sn.Points.Len() == 0 {
		s.metrics.BoundaryQueries.WithLabelValues("error").Inc()
		writeError(w, http.StatusInternalServerError, "No parcel data available for processing. Check server logs.")
		return
	}

	boundary, err := region.FromGeoJSON("drawn boundary", req.Geometry)
	if err != nil {
		if eris.Is(err, region.ErrInvalidBoundary) {
			s.metrics.BoundaryQueries.WithLabelValues("invalid").Inc()
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.metrics.BoundaryQueries.WithLabelValues("error").Inc()
		zap.L().Error("server: parse boundary", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error processing boundary")
		return
	}

	start := time.Now()
	matched := sn.Points.Filter(boundary)
	summary := aggregate.Summarize("", matched)
	details := aggregate.Details("", matched)
	s.metrics.BoundaryQueryDuration.Observe(time.Since(start).Seconds())
	s.metrics.BoundaryParcelsHit.Observe(float64(len(matched)))

	q := &model.BoundaryQuery{
		ParcelCount: summary.ParcelCount,
		TotalValue:  summary.TotalValue,
		Details:     details,
	}
	if err := s.store.SaveBoundaryQuery(r.Context(), q); err != nil {
		s.metrics.BoundaryQueries.WithLabelValues("error").Inc()
		zap.L().Error("server: save boundary query", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error processing boundary")
		return
	}

	outcome := "success"
	if len(matched) == 0 {
		outcome = "empty"
	}
	s.metrics.BoundaryQueries.WithLabelValues(outcome).Inc()
	zap.L().Info("boundary processed",
		zap.String("query_id", q.ID),
		zap.Int("parcels", q.ParcelCount),
		zap.Float64("total_value", q.TotalValue),
	)

	writeJSON(w, http.StatusOK, boundaryResponse{
		Message:     "Boundary processed successfully",
		TotalValue:  q.TotalValue,
		ParcelCount: q.ParcelCount,
		Parcels:     details,
	})
}

func (s *Server) handleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	q, err := s.store.LatestBoundaryQuery(r.Context())
	if err != nil {
		zap.L().Error("server: load latest boundary query", zap.Error(err))
		http.Error(w, "Error retrieving query results", http.StatusInternalServerError)
		return
	}
	if q == nil || len(q.Details) == 0 {
		http.Error(w, "No data for CSV. Draw a boundary first.", http.StatusNotFound)
		return
	}

	data, err := export.DetailsCSV(q.Details)
	if err != nil {
		zap.L().Error("server: render detail csv", zap.Error(err))
		http.Error(w, "Error generating CSV", http.StatusInternalServerError)
		return
	}

	s.metrics.CSVDownloads.Inc()
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="parcels_in_boundary.csv"`)
	w.Write(data) //nolint:errcheck
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	loaded := 0
	if sn := s.snap.Load(); sn != nil {
		loaded = sn.Points.Len()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"parcels": loaded,
	})
}
