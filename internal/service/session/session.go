package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"prdgen/internal/domain"
	"prdgen/internal/domain/models"
	"prdgen/internal/domain/services"
	domainllm "prdgen/internal/domain/services/llm"
)

// Session holds one user's interactive state: the active document, the
// working copy of its content, and the in-memory chat transcript. It is
// Empty until a document is created or loaded, then Active. One writer per
// session; cross-session races on the same document are last-write-wins.
type Session struct {
	ID string

	docs    services.DocumentService
	gateway domainllm.Gateway
	logger  *slog.Logger

	active     *models.Document
	content    string
	transcript []models.Message
}

// Reply is the typed result of routing one user message. Callers can tell a
// generated answer from a failure without string-matching.
type Reply struct {
	Text     string           `json:"text"`
	Document *models.Document `json:"document,omitempty"`
	Created  bool             `json:"created"`
}

// Active returns the active document, or nil when the session is Empty.
func (s *Session) Active() *models.Document {
	return s.active
}

// Content returns the session's working copy of the document content.
func (s *Session) Content() string {
	return s.content
}

// Transcript returns the in-memory chat transcript.
func (s *Session) Transcript() []models.Message {
	return s.transcript
}

// HandleMessage routes one user message. With no active document the message
// is a creation brief: the gateway generates a product PRD, which is
// persisted as version 1 and becomes the active document. With an active
// document the message is an iteration turn: the reply is appended to the
// transcript and the document content is NOT touched - persisting chat
// results is a separate, explicit Save.
func (s *Session) HandleMessage(ctx context.Context, text string) (*Reply, error) {
	if s.active == nil {
		return s.createFromBrief(ctx, text)
	}

	s.appendMessage(models.RoleUser, text)

	reply, err := s.gateway.Chat(ctx, text, s.content, s.transcript[:len(s.transcript)-1])
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	s.appendMessage(models.RoleAssistant, reply)

	return &Reply{Text: reply, Document: s.active}, nil
}

func (s *Session) createFromBrief(ctx context.Context, brief string) (*Reply, error) {
	s.appendMessage(models.RoleUser, brief)

	generated, err := s.gateway.GenerateProductPRD(ctx, brief)
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	doc, err := s.docs.Create(ctx, &services.CreateDocumentRequest{
		Title:       autoTitle(time.Now()),
		Content:     generated,
		SourceInput: brief,
		Kind:        models.KindProduct,
	})
	if err != nil {
		return nil, err
	}

	s.active = doc
	s.content = doc.Content

	note := fmt.Sprintf("Generated new PRD: %s", doc.Title)
	s.appendMessage(models.RoleAssistant, note)

	return &Reply{Text: note, Document: doc, Created: true}, nil
}

// CreateEpic generates and persists an epic under the active product
// document. The session's own active document does not change; the epic is
// its own document to be loaded separately. Legal only while a product
// document is active - epics cannot parent epics.
func (s *Session) CreateEpic(ctx context.Context, brief string, jiraKey *string) (*models.Document, error) {
	if s.active == nil {
		return nil, fmt.Errorf("%w: no active document to parent the epic", domain.ErrInvalidState)
	}
	if s.active.Kind != models.KindProduct {
		return nil, fmt.Errorf("%w: active document is an epic; epics cannot parent epics", domain.ErrInvalidState)
	}

	generated, err := s.gateway.GenerateEpicPRD(ctx, brief, s.active.Content, jiraKey)
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	parentID := s.active.ID
	epic, err := s.docs.Create(ctx, &services.CreateDocumentRequest{
		Title:       autoTitle(time.Now()),
		Content:     generated,
		SourceInput: brief,
		Kind:        models.KindEpic,
		ParentID:    &parentID,
		JiraKey:     jiraKey,
	})
	if err != nil {
		return nil, err
	}

	s.appendMessage(models.RoleAssistant, fmt.Sprintf("Generated epic PRD %s under %s", epic.Title, s.active.Title))

	return epic, nil
}

// Save persists the session's working copy as a new document version.
func (s *Session) Save(ctx context.Context, changesSummary string) (*models.Document, error) {
	if s.active == nil {
		return nil, fmt.Errorf("%w: no active document to save", domain.ErrInvalidState)
	}

	doc, err := s.docs.SaveVersion(ctx, s.active.ID, &services.SaveVersionRequest{
		Content:        s.content,
		ChangesSummary: changesSummary,
	})
	if err != nil {
		return nil, err
	}

	s.active = doc
	return doc, nil
}

// Approve marks the active document as part of the curated corpus.
func (s *Session) Approve(ctx context.Context, feedback string) error {
	if s.active == nil {
		return fmt.Errorf("%w: no active document to approve", domain.ErrInvalidState)
	}

	if err := s.docs.Approve(ctx, s.active.ID, feedback); err != nil {
		return err
	}

	doc, err := s.docs.Get(ctx, s.active.ID)
	if err != nil {
		return err
	}
	s.active = doc

	return nil
}

// Load replaces the active document with a stored one. The transcript is
// cleared: it belonged to the previous document's conversation.
func (s *Session) Load(ctx context.Context, id string) (*models.Document, error) {
	doc, err := s.docs.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.active = doc
	s.content = doc.Content
	s.transcript = nil

	return doc, nil
}

// New clears the active document and transcript, returning to Empty.
func (s *Session) New() {
	s.active = nil
	s.content = ""
	s.transcript = nil
}

// SetContent replaces the working copy without persisting, e.g. when the
// user restores a historical version before an explicit Save.
func (s *Session) SetContent(text string) error {
	if s.active == nil {
		return fmt.Errorf("%w: no active document", domain.ErrInvalidState)
	}
	s.content = text
	return nil
}

// SuggestImprovements compares the working copy against the approved corpus.
func (s *Session) SuggestImprovements(ctx context.Context) (string, error) {
	if s.active == nil {
		return "", fmt.Errorf("%w: no active document to review", domain.ErrInvalidState)
	}

	corpus, err := s.docs.ListApproved(ctx)
	if err != nil {
		return "", err
	}

	return s.gateway.SuggestImprovements(ctx, s.content, corpus)
}

// FlushTranscript persists the current transcript as a durable chat session
// keyed by the active document. Explicit side operation, never automatic.
func (s *Session) FlushTranscript(ctx context.Context) (string, error) {
	if s.active == nil {
		return "", fmt.Errorf("%w: no active document", domain.ErrInvalidState)
	}

	return s.docs.SaveChatSession(ctx, s.active.ID, s.transcript)
}

func (s *Session) appendMessage(role, content string) {
	s.transcript = append(s.transcript, models.Message{Role: role, Content: content})
}

// recordFailure leaves a visible trace of a failed generation call in the
// transcript so the conversation log keeps an audit trail of failures. The
// typed error still propagates to the caller.
func (s *Session) recordFailure(err error) {
	s.appendMessage(models.RoleAssistant, fmt.Sprintf("Generation failed: %v", err))
	s.logger.Warn("generation failure recorded in transcript", "session", s.ID, "error", err)
}

func autoTitle(now time.Time) string {
	return "PRD_" + now.Format("20060102_150405")
}
