package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/manip-survey-data/agreement.report/internal/surveydb"
)

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		users, err := s.db.ListUsers()
		if err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list users: %v", err))
			return
		}
		s.writeJSON(w, http.StatusOK, users)

	case http.MethodPost:
		var req struct {
			Username string `json:"username"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		user, err := s.db.CreateUser(req.Username)
		if err != nil {
			s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("failed to create user: %v", err))
			return
		}
		s.writeJSON(w, http.StatusCreated, user)

	default:
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleUserBatches(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	switch r.Method {
	case http.MethodGet:
		batches, err := s.db.UserBatches(username)
		if err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list batches: %v", err))
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]interface{}{"username": username, "batches": batches})

	case http.MethodPost:
		var req struct {
			Batch int `json:"batch"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		err := s.db.AssignBatch(username, req.Batch)
		if errors.Is(err, surveydb.ErrUserNotFound) {
			s.writeJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		if err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to assign batch: %v", err))
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "assigned"})

	default:
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleConversations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var batch *int
		if b := r.URL.Query().Get("batch"); b != "" {
			parsed, err := strconv.Atoi(b)
			if err != nil {
				s.writeJSONError(w, http.StatusBadRequest, "Invalid 'batch' parameter")
				return
			}
			batch = &parsed
		}
		convs, err := s.db.ListConversations(batch)
		if err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list conversations: %v", err))
			return
		}
		s.writeJSON(w, http.StatusOK, convs)

	case http.MethodPost:
		s.uploadConversations(w, r)

	default:
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// uploadConversations accepts either a single conversation object or an
// array of them, so bulk upload scripts and single-item clients share one
// endpoint.
func (s *Server) uploadConversations(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var convs []surveydb.Conversation
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &convs); err != nil {
			s.writeJSONError(w, http.StatusBadRequest, "invalid conversation list")
			return
		}
	} else {
		var c surveydb.Conversation
		if err := json.Unmarshal(raw, &c); err != nil {
			s.writeJSONError(w, http.StatusBadRequest, "invalid conversation")
			return
		}
		convs = []surveydb.Conversation{c}
	}

	for i := range convs {
		if err := s.db.UpsertConversation(&convs[i]); err != nil {
			s.writeJSONError(w, http.StatusBadRequest,
				fmt.Sprintf("failed to store conversation %d of %d: %v", i+1, len(convs), err))
			return
		}
	}
	s.writeJSON(w, http.StatusCreated, map[string]int{"uploaded": len(convs)})
}

func (s *Server) getConversation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	conv, err := s.db.GetConversation(r.PathValue("uuid"))
	if errors.Is(err, surveydb.ErrConversationNotFound) {
		s.writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load conversation: %v", err))
		return
	}
	s.writeJSON(w, http.StatusOK, conv)
}

func (s *Server) handleResponses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		responses, err := s.db.ListResponses()
		if err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list responses: %v", err))
			return
		}
		s.writeJSON(w, http.StatusOK, responses)

	case http.MethodPost:
		var resp surveydb.SurveyResponse
		if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
			s.writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.db.SaveResponse(&resp); err != nil {
			s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("failed to save response: %v", err))
			return
		}
		s.writeJSON(w, http.StatusCreated, map[string]string{"status": "saved"})

	default:
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
