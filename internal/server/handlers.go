package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atlastravel/atlas/internal/domain"
	"github.com/atlastravel/atlas/internal/store"
)

type generateRequest struct {
	InputText        string            `json:"input_text"`
	SessionID        string            `json:"session_id,omitempty"`
	PartialItinerary *domain.Itinerary `json:"partial_itinerary,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	// Diagnostics carries validator output for structured-output
	// failures so API clients can show what went wrong.
	Diagnostics []string `json:"diagnostics,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body", Kind: "bad_request"})
		return
	}
	if req.InputText == "" {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "input_text is required", Kind: "bad_request"})
		return
	}

	profile, err := s.svc.Profile()
	if err != nil {
		writeError(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Kind: "internal"})
		return
	}

	var chatHistory []domain.Message
	if req.SessionID != "" && s.history != nil {
		chatHistory, err = s.history.Messages(r.Context(), req.SessionID, 0)
		if err != nil {
			writeError(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "bad_request"})
			return
		}
	}

	it, err := s.svc.GenerateItinerary(r.Context(), req.InputText, chatHistory, req.PartialItinerary, profile)
	if err != nil {
		writeTypedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var it domain.Itinerary
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body", Kind: "bad_request"})
		return
	}
	profile, err := s.svc.Save(r.Context(), it)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Kind: "internal"})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.svc.Profile()
	if err != nil {
		writeError(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Kind: "internal"})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.store.ListItineraries()
	if err != nil {
		writeError(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Kind: "internal"})
		return
	}
	if trips == nil {
		trips = []store.ItinerarySummary{}
	}
	writeJSON(w, http.StatusOK, trips)
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	it, err := s.store.LoadItinerary(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, errorResponse{Error: "no itinerary with id " + id, Kind: "not_found"})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Kind: "internal"})
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	sessions, err := s.history.ListSessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Kind: "internal"})
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// writeTypedError maps the planning error taxonomy onto status codes.
func writeTypedError(w http.ResponseWriter, err error) {
	var soe *domain.StructuredOutputError
	if errors.As(err, &soe) {
		writeError(w, http.StatusBadGateway, errorResponse{
			Error: soe.Error(), Kind: "structured_output", Diagnostics: soe.Diagnostics,
		})
		return
	}
	var cv *domain.ContinuityViolation
	if errors.As(err, &cv) {
		writeError(w, http.StatusConflict, errorResponse{Error: cv.Error(), Kind: "continuity_violation"})
		return
	}
	var oe *domain.OrchestrationExhausted
	if errors.As(err, &oe) {
		writeError(w, http.StatusServiceUnavailable, errorResponse{Error: oe.Error(), Kind: "orchestration_exhausted"})
		return
	}
	writeError(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Kind: "internal"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, resp errorResponse) {
	writeJSON(w, status, resp)
}
