package models

import (
	"time"
)

// Kind distinguishes the two PRD tiers. A product document is a master
// reference; an epic inherits grounding context from its parent product.
type Kind string

const (
	KindProduct Kind = "product"
	KindEpic    Kind = "epic"
)

// Status is derived from IsApproved and kept denormalized for listings.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusApproved Status = "approved"
)

// Document is a Product Requirements Document. Content is mutated only by
// an explicit save-version operation, never by chat replies.
type Document struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Content     string    `json:"content" db:"content"`
	Version     int       `json:"version" db:"version"`
	Kind        Kind      `json:"kind" db:"kind"`
	ParentID    *string   `json:"parent_id,omitempty" db:"parent_id"`
	JiraKey     *string   `json:"jira_key,omitempty" db:"jira_key"`
	Status      Status    `json:"status" db:"status"`
	IsApproved  bool      `json:"is_approved" db:"is_approved"`
	Feedback    string    `json:"feedback" db:"feedback"`
	SourceInput string    `json:"source_input" db:"source_input"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Snapshot is an immutable copy of a document's content at one version.
// Snapshots are append-only: created once per save, never updated or deleted.
type Snapshot struct {
	ID             string    `json:"id" db:"id"`
	DocumentID     string    `json:"document_id" db:"prd_id"`
	Version        int       `json:"version" db:"version"`
	Content        string    `json:"content" db:"content"`
	ChangesSummary string    `json:"changes_summary,omitempty" db:"changes_summary"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Stats summarizes the document corpus.
type Stats struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Drafts   int `json:"drafts"`
}
