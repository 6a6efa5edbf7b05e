package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"prdgen/internal/domain"
	"prdgen/internal/domain/models"
	"prdgen/internal/domain/repositories"
	"prdgen/internal/domain/services"
)

// fakeDocumentRepository is an in-memory DocumentRepository for service tests.
type fakeDocumentRepository struct {
	docs      map[string]*models.Document
	snapshots map[string][]models.Snapshot
}

func newFakeDocumentRepository() *fakeDocumentRepository {
	return &fakeDocumentRepository{
		docs:      make(map[string]*models.Document),
		snapshots: make(map[string][]models.Snapshot),
	}
}

func (f *fakeDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	copied := *doc
	f.docs[doc.ID] = &copied
	return nil
}

func (f *fakeDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeDocumentRepository) UpdateContent(ctx context.Context, id, content string, version int, updatedAt time.Time) error {
	doc, ok := f.docs[id]
	if !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	doc.Content = content
	doc.Version = version
	doc.UpdatedAt = updatedAt
	return nil
}

func (f *fakeDocumentRepository) Approve(ctx context.Context, id, feedback string) (bool, error) {
	doc, ok := f.docs[id]
	if !ok || doc.IsApproved {
		return false, nil
	}
	doc.IsApproved = true
	doc.Status = models.StatusApproved
	doc.Feedback = feedback
	return true, nil
}

func (f *fakeDocumentRepository) ListAll(ctx context.Context) ([]models.Document, error) {
	var out []models.Document
	for _, doc := range f.docs {
		out = append(out, *doc)
	}
	return out, nil
}

func (f *fakeDocumentRepository) ListByKind(ctx context.Context, kind models.Kind) ([]models.Document, error) {
	var out []models.Document
	for _, doc := range f.docs {
		if doc.Kind == kind {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (f *fakeDocumentRepository) ListChildren(ctx context.Context, parentID string) ([]models.Document, error) {
	var out []models.Document
	for _, doc := range f.docs {
		if doc.ParentID != nil && *doc.ParentID == parentID {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (f *fakeDocumentRepository) ListApproved(ctx context.Context) ([]models.Document, error) {
	var out []models.Document
	for _, doc := range f.docs {
		if doc.IsApproved {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (f *fakeDocumentRepository) CreateSnapshot(ctx context.Context, snap *models.Snapshot) error {
	f.snapshots[snap.DocumentID] = append(f.snapshots[snap.DocumentID], *snap)
	return nil
}

func (f *fakeDocumentRepository) ListSnapshots(ctx context.Context, documentID string) ([]models.Snapshot, error) {
	snaps := f.snapshots[documentID]
	// Most recent version first, matching the real repository ordering.
	out := make([]models.Snapshot, len(snaps))
	for i, s := range snaps {
		out[len(snaps)-1-i] = s
	}
	return out, nil
}

func (f *fakeDocumentRepository) Stats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{}
	for _, doc := range f.docs {
		stats.Total++
		if doc.IsApproved {
			stats.Approved++
		} else {
			stats.Drafts++
		}
	}
	return stats, nil
}

type fakeChatSessionRepository struct {
	sessions []models.ChatSession
}

func (f *fakeChatSessionRepository) Create(ctx context.Context, session *models.ChatSession) error {
	f.sessions = append(f.sessions, *session)
	return nil
}

func (f *fakeChatSessionRepository) ListByDocument(ctx context.Context, documentID string) ([]models.ChatSession, error) {
	var out []models.ChatSession
	for _, s := range f.sessions {
		if s.DocumentID == documentID {
			out = append(out, s)
		}
	}
	return out, nil
}

// fakeTxManager runs the function directly; transactional rollback is
// exercised against a real database, not here.
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	f.calls++
	return fn(ctx)
}

func newTestService(t *testing.T) (services.DocumentService, *fakeDocumentRepository, *fakeChatSessionRepository, *fakeTxManager) {
	t.Helper()
	docRepo := newFakeDocumentRepository()
	chatRepo := &fakeChatSessionRepository{}
	txManager := &fakeTxManager{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDocumentService(docRepo, chatRepo, txManager, logger), docRepo, chatRepo, txManager
}

func createProduct(t *testing.T, svc services.DocumentService) *models.Document {
	t.Helper()
	doc, err := svc.Create(context.Background(), &services.CreateDocumentRequest{
		Title:       "Checkout Revamp",
		Content:     "# PRD\nInitial draft",
		SourceInput: "revamp the checkout flow",
		Kind:        models.KindProduct,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return doc
}

func TestDocumentService_CreateStartsAtVersionOne(t *testing.T) {
	svc, docRepo, _, txManager := newTestService(t)

	doc := createProduct(t, svc)

	if doc.Version != 1 {
		t.Errorf("new document version = %d, want 1", doc.Version)
	}
	if doc.Status != models.StatusDraft {
		t.Errorf("new document status = %q, want %q", doc.Status, models.StatusDraft)
	}
	if doc.IsApproved {
		t.Error("new document should not be approved")
	}

	snaps := docRepo.snapshots[doc.ID]
	if len(snaps) != 1 {
		t.Fatalf("snapshot count = %d, want 1", len(snaps))
	}
	if snaps[0].Version != 1 || snaps[0].Content != doc.Content {
		t.Errorf("first snapshot = v%d %q, want v1 with document content", snaps[0].Version, snaps[0].Content)
	}

	if txManager.calls != 1 {
		t.Errorf("transaction count = %d, want 1 (row and snapshot together)", txManager.calls)
	}
}

func TestDocumentService_CreateValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	cases := []struct {
		name string
		req  *services.CreateDocumentRequest
	}{
		{"missing title", &services.CreateDocumentRequest{Content: "body", Kind: models.KindProduct}},
		{"missing content", &services.CreateDocumentRequest{Title: "t", Kind: models.KindProduct}},
		{"unknown kind", &services.CreateDocumentRequest{Title: "t", Content: "body", Kind: "feature"}},
		{"title too long", &services.CreateDocumentRequest{Title: strings.Repeat("x", 256), Content: "body", Kind: models.KindProduct}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Create error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestDocumentService_EpicRequiresExistingProductParent(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	// No parent at all.
	_, err := svc.Create(ctx, &services.CreateDocumentRequest{
		Title: "epic", Content: "body", Kind: models.KindEpic,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("epic without parent: error = %v, want ErrValidation", err)
	}

	// Parent id that does not exist.
	missing := "no-such-id"
	_, err = svc.Create(ctx, &services.CreateDocumentRequest{
		Title: "epic", Content: "body", Kind: models.KindEpic, ParentID: &missing,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("epic with missing parent: error = %v, want ErrValidation", err)
	}

	// Legal case: parent is an existing product document.
	product := createProduct(t, svc)
	epic, err := svc.Create(ctx, &services.CreateDocumentRequest{
		Title: "epic", Content: "body", Kind: models.KindEpic, ParentID: &product.ID,
	})
	if err != nil {
		t.Fatalf("epic under product: unexpected error %v", err)
	}
	if epic.ParentID == nil || *epic.ParentID != product.ID {
		t.Error("epic parent id not set to product id")
	}

	// Epics cannot parent epics.
	_, err = svc.Create(ctx, &services.CreateDocumentRequest{
		Title: "sub-epic", Content: "body", Kind: models.KindEpic, ParentID: &epic.ID,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("epic under epic: error = %v, want ErrValidation", err)
	}
}

func TestDocumentService_ProductCannotHaveParent(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	product := createProduct(t, svc)
	_, err := svc.Create(context.Background(), &services.CreateDocumentRequest{
		Title: "another product", Content: "body", Kind: models.KindProduct, ParentID: &product.ID,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("product with parent: error = %v, want ErrValidation", err)
	}
}

func TestDocumentService_SaveVersionIncrementsByOne(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	doc := createProduct(t, svc)

	const saves = 4
	for i := 1; i <= saves; i++ {
		saved, err := svc.SaveVersion(ctx, doc.ID, &services.SaveVersionRequest{
			Content:        fmt.Sprintf("revision %d", i),
			ChangesSummary: fmt.Sprintf("edit %d", i),
		})
		if err != nil {
			t.Fatalf("SaveVersion %d returned error: %v", i, err)
		}
		if saved.Version != 1+i {
			t.Errorf("after save %d version = %d, want %d", i, saved.Version, 1+i)
		}
	}

	// History covers 1..saves+1 with no gaps, most recent first.
	versions, err := svc.ListVersions(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ListVersions returned error: %v", err)
	}
	if len(versions) != saves+1 {
		t.Fatalf("snapshot count = %d, want %d", len(versions), saves+1)
	}
	for i, snap := range versions {
		want := saves + 1 - i
		if snap.Version != want {
			t.Errorf("versions[%d] = %d, want %d", i, snap.Version, want)
		}
	}

	// Working content matches the last save.
	latest, err := svc.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if latest.Content != fmt.Sprintf("revision %d", saves) {
		t.Errorf("latest content = %q, want last revision", latest.Content)
	}
}

func TestDocumentService_SaveVersionValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	doc := createProduct(t, svc)

	_, err := svc.SaveVersion(context.Background(), doc.ID, &services.SaveVersionRequest{Content: ""})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty content: error = %v, want ErrValidation", err)
	}
}

func TestDocumentService_SaveVersionNotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.SaveVersion(context.Background(), "missing", &services.SaveVersionRequest{Content: "body"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing document: error = %v, want ErrNotFound", err)
	}
}

func TestDocumentService_ApproveIsIdempotent(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	doc := createProduct(t, svc)

	if err := svc.Approve(ctx, doc.ID, "ship it"); err != nil {
		t.Fatalf("first Approve returned error: %v", err)
	}

	// Second approval succeeds without overwriting the stored feedback.
	if err := svc.Approve(ctx, doc.ID, "different note"); err != nil {
		t.Fatalf("second Approve returned error: %v", err)
	}

	approved, err := svc.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !approved.IsApproved || approved.Status != models.StatusApproved {
		t.Errorf("document not approved: is_approved=%v status=%q", approved.IsApproved, approved.Status)
	}
	if approved.Feedback != "ship it" {
		t.Errorf("feedback = %q, want the first approval's %q", approved.Feedback, "ship it")
	}
}

func TestDocumentService_ApproveNotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	err := svc.Approve(context.Background(), "missing", "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing document: error = %v, want ErrNotFound", err)
	}
}

func TestDocumentService_ApproveFeedbackTooLong(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	doc := createProduct(t, svc)

	err := svc.Approve(context.Background(), doc.ID, strings.Repeat("x", 2001))
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("oversized feedback: error = %v, want ErrValidation", err)
	}
}

func TestDocumentService_ListApprovedReturnsOnlyCorpus(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	first := createProduct(t, svc)
	second := createProduct(t, svc)
	createProduct(t, svc) // stays draft

	if err := svc.Approve(ctx, first.ID, ""); err != nil {
		t.Fatal(err)
	}
	if err := svc.Approve(ctx, second.ID, ""); err != nil {
		t.Fatal(err)
	}

	corpus, err := svc.ListApproved(ctx)
	if err != nil {
		t.Fatalf("ListApproved returned error: %v", err)
	}
	if len(corpus) != 2 {
		t.Fatalf("corpus size = %d, want 2", len(corpus))
	}

	ids := map[string]bool{first.ID: false, second.ID: false}
	for _, doc := range corpus {
		if _, ok := ids[doc.ID]; !ok {
			t.Errorf("unexpected document %s in corpus", doc.ID)
		}
		ids[doc.ID] = true
	}
	for id, seen := range ids {
		if !seen {
			t.Errorf("approved document %s missing from corpus", id)
		}
	}
}

func TestDocumentService_ListByKindRejectsUnknownKind(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.ListByKind(context.Background(), "feature")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unknown kind: error = %v, want ErrValidation", err)
	}
}

func TestDocumentService_ListChildrenUnknownParent(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.ListChildren(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown parent: error = %v, want ErrNotFound", err)
	}
}

func TestDocumentService_Stats(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	first := createProduct(t, svc)
	createProduct(t, svc)
	if err := svc.Approve(ctx, first.ID, ""); err != nil {
		t.Fatal(err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.Total != 2 || stats.Approved != 1 || stats.Drafts != 1 {
		t.Errorf("stats = %+v, want total=2 approved=1 drafts=1", stats)
	}
}

func TestDocumentService_SaveChatSession(t *testing.T) {
	svc, _, chatRepo, _ := newTestService(t)
	ctx := context.Background()

	doc := createProduct(t, svc)

	_, err := svc.SaveChatSession(ctx, doc.ID, nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty transcript: error = %v, want ErrValidation", err)
	}

	id, err := svc.SaveChatSession(ctx, doc.ID, []models.Message{
		{Role: models.RoleUser, Content: "tighten the scope"},
		{Role: models.RoleAssistant, Content: "Suggested a narrower scope."},
	})
	if err != nil {
		t.Fatalf("SaveChatSession returned error: %v", err)
	}
	if id == "" {
		t.Fatal("SaveChatSession returned empty id")
	}

	stored, err := chatRepo.ListByDocument(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 {
		t.Fatalf("stored sessions = %d, want 1", len(stored))
	}
	if len(stored[0].Messages) != 2 {
		t.Errorf("stored messages = %d, want 2", len(stored[0].Messages))
	}
}
