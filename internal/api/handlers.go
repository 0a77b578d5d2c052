package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/studypilot/studypilot/internal/composer"
	"github.com/studypilot/studypilot/internal/core"
)

// sessionID pulls the session token from the request. Missing tokens map to
// the default session inside the registry.
func sessionID(r *http.Request) core.SessionID {
	return core.SessionID(r.URL.Query().Get("session"))
}

type chatRequest struct {
	Message string `json:"message"`
	Mode    string `json:"mode"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Message == "" {
		s.respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	result, err := s.orchestrator.ChatTurn(r.Context(), sessionID(r), req.Mode, req.Message)
	if err != nil {
		if errors.Is(err, core.ErrLLMUnavailable) {
			s.respondError(w, http.StatusServiceUnavailable, "LLM not configured")
			return
		}
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.Broadcast("chat.turn", map[string]any{
		"mode":       req.Mode,
		"tool_calls": len(result.ToolCalls),
	})

	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	h, err := s.sessions.Acquire(sessionID(r))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = core.ModeGeneral
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	h.Lock()
	msgs, err := h.Chat.Recent(mode, limit)
	h.Unlock()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if msgs == nil {
		msgs = []*core.ChatMessage{}
	}
	s.respondJSON(w, http.StatusOK, msgs)
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	h, err := s.sessions.Acquire(sessionID(r))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}

	h.Lock()
	tasks, err := composer.Upcoming(h, days)
	h.Unlock()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if tasks == nil {
		tasks = []*core.UpcomingTask{}
	}
	s.respondJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	h, err := s.sessions.Acquire(sessionID(r))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.Lock()
	profile, err := h.State.GetProfile()
	h.Unlock()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update core.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid profile payload")
		return
	}

	h, err := s.sessions.Acquire(sessionID(r))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.Lock()
	profile, err := h.State.UpdateProfile(update)
	h.Unlock()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.Broadcast("profile.updated", profile)
	s.respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	h, err := s.sessions.Acquire(sessionID(r))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.Lock()
	prefs, err := h.State.GetPreferences()
	h.Unlock()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, prefs)
}

func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var update core.PreferencesUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid preferences payload")
		return
	}

	h, err := s.sessions.Acquire(sessionID(r))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.Lock()
	prefs, err := h.State.UpdatePreferences(update)
	h.Unlock()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, prefs)
}
