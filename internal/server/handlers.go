package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/localpulse/localpulse/internal/feed"
	"github.com/localpulse/localpulse/internal/session"
	"github.com/localpulse/localpulse/internal/types"
)

// decodeAndValidate decodes a JSON request body into dst and runs
// struct validation on it.
func (s *Server) decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := s.validate.Struct(dst); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// handleListOpportunities returns the filtered, ranked opportunity feed.
// Filter state comes entirely from query parameters; omitting them all
// applies the default view.
func (s *Server) handleListOpportunities(w http.ResponseWriter, r *http.Request) {
	criteria := feed.DefaultCriteria()

	query := r.URL.Query()
	if levels, ok := query["urgency"]; ok {
		criteria.Urgency = criteria.Urgency[:0]
		for _, raw := range levels {
			level := types.UrgencyLevel(raw)
			if !level.Valid() {
				s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("unknown urgency level: %q", raw))
				return
			}
			criteria.Urgency = append(criteria.Urgency, level)
		}
	}
	if raw := query.Get("min_legitimacy"); raw != "" {
		minLeg, err := strconv.Atoi(raw)
		if err != nil || minLeg < 0 || minLeg > 100 {
			s.errorResponse(w, http.StatusBadRequest, "min_legitimacy must be an integer between 0 and 100")
			return
		}
		criteria.MinLegitimacy = minLeg
	}

	opps, err := s.store.List(r.Context())
	if err != nil {
		log.Printf("[server] failed to list opportunities: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load opportunities")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"opportunities": feed.Rank(opps, criteria),
	})
}

func (s *Server) handleGetOpportunity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	opp, err := feed.Find(r.Context(), s.store, id)
	if err != nil {
		log.Printf("[server] failed to look up opportunity %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load opportunity")
		return
	}
	if opp == nil {
		s.errorResponse(w, http.StatusNotFound, (&ErrOpportunityNotFound{ID: id}).Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, opp)
}

// handleEnrichOpportunity runs the deep analysis on one opportunity.
// Concurrent requests for the same id share a single model call.
func (s *Server) handleEnrichOpportunity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	opp, err := feed.Find(r.Context(), s.store, id)
	if err != nil {
		log.Printf("[server] failed to look up opportunity %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load opportunity")
		return
	}
	if opp == nil {
		s.errorResponse(w, http.StatusNotFound, (&ErrOpportunityNotFound{ID: id}).Error())
		return
	}

	// The flight is shared across requests, so it must not die with the
	// request that happened to start it.
	result, err, _ := s.flights.Do("enrich:"+id, func() (any, error) {
		return s.gateway.EnrichOpportunity(context.WithoutCancel(r.Context()), opp.Title, opp.Snippet)
	})
	if err != nil {
		log.Printf("[server] enrichment failed for %s: %v", id, err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

type draftRequest struct {
	UserSkills string `json:"user_skills" validate:"omitempty,max=500"`
}

// handleDraftResponse produces formal and casual reply drafts for an
// opportunity. Drafting never fails outward; on model trouble the
// response carries the fallback drafts.
func (s *Server) handleDraftResponse(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// An absent body is fine; the request struct is all-optional. Decode
	// whatever is there, including chunked bodies with unknown length.
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, (&ErrValidation{Field: "body", Message: err.Error()}).Error())
		return
	}

	opp, err := feed.Find(r.Context(), s.store, id)
	if err != nil {
		log.Printf("[server] failed to look up opportunity %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load opportunity")
		return
	}
	if opp == nil {
		s.errorResponse(w, http.StatusNotFound, (&ErrOpportunityNotFound{ID: id}).Error())
		return
	}

	result, _, _ := s.flights.Do("draft:"+id+":"+req.UserSkills, func() (any, error) {
		return s.gateway.DraftResponse(context.WithoutCancel(r.Context()), opp, req.UserSkills), nil
	})

	s.jsonResponse(w, http.StatusOK, result)
}

type analyzeImageRequest struct {
	Prompt      string `json:"prompt" validate:"required"`
	ImageBase64 string `json:"image_base64" validate:"required"`
	MIMEType    string `json:"mime_type" validate:"required"`
}

func (s *Server) handleAnalyzeImage(w http.ResponseWriter, r *http.Request) {
	var req analyzeImageRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "image_base64 is not valid base64")
		return
	}

	text, err := s.gateway.AnalyzeImage(r.Context(), req.Prompt, image, req.MIMEType)
	if err != nil {
		log.Printf("[server] image analysis failed: %v", err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"text": text})
}

type generateImageRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// handleGenerateImage returns a data URL for the generated image, or
// an empty string when the model produced nothing usable.
func (s *Server) handleGenerateImage(w http.ResponseWriter, r *http.Request) {
	var req generateImageRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	url, err := s.gateway.GenerateImage(r.Context(), req.Prompt)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"image_url": url})
}

// handleCreateChatSession mints a session id. No transcript is stored
// until the first message arrives.
func (s *Server) handleCreateChatSession(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusCreated, map[string]string{"session_id": uuid.NewString()})
}

type chatMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// handleChatMessage sends one user message to the assistant and
// appends both sides of the exchange to the session transcript. Turns
// within a session are serialized; turns across sessions are not.
func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req chatMessageRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	history, err := s.sessions.History(r.Context(), id)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		log.Printf("[server] failed to load chat session %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load chat session")
		return
	}

	reply := s.gateway.Chat(r.Context(), history, req.Message)

	if err := s.sessions.Append(r.Context(), id,
		types.Turn{Role: types.RoleUser, Text: req.Message},
		types.Turn{Role: types.RoleModel, Text: reply},
	); err != nil {
		log.Printf("[server] failed to store chat turn for %s: %v", id, err)
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"reply": reply})
}

// handleResetChatSession drops the transcript. The id stays usable;
// the next message starts a fresh conversation.
func (s *Server) handleResetChatSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	if err := s.sessions.Reset(r.Context(), id); err != nil {
		log.Printf("[server] failed to reset chat session %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to reset chat session")
		return
	}
	// Drop the per-session mutex too, or the lock map grows with every
	// id a client ever touched.
	s.sessionLocks.Delete(id)

	w.WriteHeader(http.StatusNoContent)
}

// handleDiscoveryMap generates the market discovery report. All
// concurrent requests share one model call; the report has no
// per-request inputs.
func (s *Server) handleDiscoveryMap(w http.ResponseWriter, r *http.Request) {
	result, err, _ := s.flights.Do("report:discovery-map", func() (any, error) {
		return s.gateway.GenerateDiscoveryMap(context.WithoutCancel(r.Context()))
	})
	if err != nil {
		log.Printf("[server] discovery map generation failed: %v", err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleDesignSystem(w http.ResponseWriter, r *http.Request) {
	result, err, _ := s.flights.Do("report:design-system", func() (any, error) {
		return s.gateway.GenerateDesignSystem(context.WithoutCancel(r.Context()))
	})
	if err != nil {
		log.Printf("[server] design system generation failed: %v", err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"markdown": result.(string)})
}
