package handler

import (
	"log/slog"
	"net/http"

	"prdgen/internal/httputil"
	"prdgen/internal/service/session"
)

// SessionHandler exposes the interactive session operations over HTTP. Each
// session maps to one conversational workspace (active document +
// transcript); the front-end keeps the session id and addresses it here.
type SessionHandler struct {
	manager *session.Manager
	logger  *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(manager *session.Manager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		logger:  logger,
	}
}

type sessionState struct {
	ID         string      `json:"id"`
	Active     interface{} `json:"active_document,omitempty"`
	Content    string      `json:"content,omitempty"`
	Transcript interface{} `json:"transcript,omitempty"`
}

func stateOf(s *session.Session) sessionState {
	state := sessionState{ID: s.ID, Content: s.Content()}
	if doc := s.Active(); doc != nil {
		state.Active = doc
	}
	if transcript := s.Transcript(); len(transcript) > 0 {
		state.Transcript = transcript
	}
	return state
}

// CreateSession starts a new Empty session
// POST /api/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.manager.Create()
	httputil.RespondJSON(w, http.StatusCreated, stateOf(s))
}

// GetSession returns the session state
// GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	httputil.RespondJSON(w, http.StatusOK, stateOf(s))
}

// PostMessage routes one user message into the session
// POST /api/sessions/{id}/messages
func (h *SessionHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reply, err := s.HandleMessage(r.Context(), req.Text)
	if err != nil {
		handleError(w, err)
		return
	}

	status := http.StatusOK
	if reply.Created {
		status = http.StatusCreated
	}
	httputil.RespondJSON(w, status, reply)
}

// SaveVersion persists the session's working copy as a new version
// POST /api/sessions/{id}/save
func (h *SessionHandler) SaveVersion(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		ChangesSummary string `json:"changes_summary"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc, err := s.Save(r.Context(), req.ChangesSummary)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// SetContent replaces the working copy without persisting
// PUT /api/sessions/{id}/content
func (h *SessionHandler) SetContent(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.SetContent(req.Content); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, stateOf(s))
}

// Approve marks the active document approved
// POST /api/sessions/{id}/approve
func (h *SessionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Feedback string `json:"feedback"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.Approve(r.Context(), req.Feedback); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, s.Active())
}

// NewDocument clears the session back to Empty
// POST /api/sessions/{id}/new
func (h *SessionHandler) NewDocument(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	s.New()
	httputil.RespondJSON(w, http.StatusOK, stateOf(s))
}

// LoadDocument replaces the active document with a stored one
// POST /api/sessions/{id}/load
func (h *SessionHandler) LoadDocument(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		DocumentID string `json:"document_id"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc, err := s.Load(r.Context(), req.DocumentID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// CreateEpic generates an epic under the active product document
// POST /api/sessions/{id}/epics
func (h *SessionHandler) CreateEpic(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Brief   string  `json:"brief"`
		JiraKey *string `json:"jira_key,omitempty"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	epic, err := s.CreateEpic(r.Context(), req.Brief, req.JiraKey)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, epic)
}

// SuggestImprovements compares the working copy against the approved corpus
// POST /api/sessions/{id}/suggestions
func (h *SessionHandler) SuggestImprovements(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	text, err := s.SuggestImprovements(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"suggestions": text})
}

// FlushTranscript persists the transcript as a durable chat session
// POST /api/sessions/{id}/flush
func (h *SessionHandler) FlushTranscript(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	chatSessionID, err := s.FlushTranscript(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]string{"chat_session_id": chatSessionID})
}

// DeleteSession discards a session
// DELETE /api/sessions/{id}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Session ID")
	if !ok {
		return
	}

	h.manager.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, ok := PathParam(w, r, "id", "Session ID")
	if !ok {
		return nil, false
	}

	s, err := h.manager.Get(id)
	if err != nil {
		handleError(w, err)
		return nil, false
	}

	return s, true
}
