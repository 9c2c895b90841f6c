package submission

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/lmdrew96/ChickenScratch-sub001/internal/access"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/audit"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/notify"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/ratelimit"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/roles"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/storage"
	"github.com/lmdrew96/ChickenScratch-sub001/internal/viewcache"
)

type testEnv struct {
	svc     *Service
	repo    *MemoryRepo
	audits  *audit.MemoryRepo
	mail    *notify.MemorySender
	cache   *viewcache.Recorder
	files   *storage.MemoryStore
	limiter *ratelimit.MemoryLimiter
	now     time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		repo:    NewMemoryRepo(),
		audits:  audit.NewMemoryRepo(),
		mail:    notify.NewMemorySender(),
		cache:   viewcache.NewRecorder(),
		files:   storage.NewMemoryStore(),
		limiter: ratelimit.NewMemoryLimiter(5, time.Hour),
		now:     time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC),
	}
	env.limiter.SetClock(func() time.Time { return env.now })

	env.svc = NewService(Deps{
		Repo:    env.repo,
		Audit:   audit.NewService(env.audits, slog.Default()),
		Notify:  notify.NewDispatcher(env.mail, slog.Default()),
		Cache:   env.cache,
		Files:   env.files,
		Limiter: env.limiter,
		Log:     slog.Default(),
	})
	env.svc.clock = func() time.Time { return env.now }
	return env
}

func (e *testEnv) mustCreate(t *testing.T, ownerID string, req CreateRequest) Submission {
	t.Helper()
	out, err := e.svc.Create(context.Background(), ownerID, ownerID+"@udel.edu", req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.RateLimited {
		t.Fatalf("unexpected rate limit")
	}
	return out.Submission
}

func writingReq(title string) CreateRequest {
	return CreateRequest{Title: title, Type: TypeWriting, TextBody: "feathers and ink"}
}

func capsFor(rec roles.Record) access.Capabilities {
	return access.Resolve(rec)
}

func committeeCaps(actorID string) access.Capabilities {
	return capsFor(roles.Record{UserID: actorID, IsMember: true, Roles: []string{roles.RoleCommittee}, Positions: []string{}})
}

func eicCaps(actorID string) access.Capabilities {
	return capsFor(roles.Record{UserID: actorID, IsMember: true, Roles: []string{}, Positions: []string{access.PositionEditorInChief}})
}

func adminCaps(actorID string) access.Capabilities {
	return capsFor(roles.Record{UserID: actorID, IsMember: true, Roles: []string{}, Positions: []string{access.PositionPresident}})
}

/* ===================== CREATE ===================== */

func TestCreate_ValidatesTypeSpecificContent(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(context.Background(), "u1", "", CreateRequest{Title: "x", Type: TypeWriting})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("writing without body: expected ErrInvalidArgument, got %v", err)
	}

	_, err = env.svc.Create(context.Background(), "u1", "", CreateRequest{Title: "x", Type: TypeVisual})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("visual without files: expected ErrInvalidArgument, got %v", err)
	}

	_, err = env.svc.Create(context.Background(), "u1", "", CreateRequest{
		Title: "x", Type: TypeVisual,
		ArtFiles: []string{"1", "2", "3", "4", "5", "6"},
	})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("visual with 6 files: expected ErrInvalidArgument, got %v", err)
	}

	_, err = env.svc.Create(context.Background(), "u1", "", CreateRequest{Title: "x", Type: "sculpture"})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("unknown type: expected ErrInvalidArgument, got %v", err)
	}
}

func TestCreate_RateLimitWindowBehavior(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 5; i++ {
		env.mustCreate(t, "u1", writingReq("piece"))
	}

	out, err := env.svc.Create(context.Background(), "u1", "", writingReq("one too many"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !out.RateLimited {
		t.Fatalf("6th creation within the hour must be rate limited")
	}
	if out.RetryAfter <= 0 {
		t.Fatalf("rate limited outcome must carry retry-after")
	}

	// Another actor is unaffected.
	env.mustCreate(t, "u2", writingReq("other actor"))

	// After the window elapses the same actor may create again.
	env.now = env.now.Add(time.Hour + time.Minute)
	env.mustCreate(t, "u1", writingReq("next window"))
}

func TestCreate_StartsSubmittedAndInvalidatesCache(t *testing.T) {
	env := newTestEnv(t)

	sub := env.mustCreate(t, "u1", writingReq("Molt"))
	if sub.Status != StatusSubmitted {
		t.Fatalf("new submission must start submitted, got %q", sub.Status)
	}
	if len(env.cache.Invalidations()) != 1 {
		t.Fatalf("expected cache invalidation on create")
	}
}

/* ===================== EDIT ===================== */

func TestEdit_OwnershipBoundary(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", writingReq("Molt"))

	newTitle := "Molt II"
	_, err := env.svc.Edit(context.Background(), "bob", sub.ID, EditRequest{Title: &newTitle})
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("non-owner edit: expected ErrNotOwner, got %v", err)
	}
}

func TestEdit_RejectedOnceDecided(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", writingReq("Molt"))

	_, err := env.svc.ChangeStatus(context.Background(), committeeCaps("rev"), sub.ID, StatusAccepted, "")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	newTitle := "Molt II"
	_, err = env.svc.Edit(context.Background(), "alice", sub.ID, EditRequest{Title: &newTitle})
	if !errors.Is(err, ErrNotEditable) {
		t.Fatalf("edit of accepted submission: expected ErrNotEditable, got %v", err)
	}
}

func TestEdit_AllowedAgainAfterNeedsRevision(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", writingReq("Molt"))

	_, err := env.svc.ChangeStatus(context.Background(), committeeCaps("rev"), sub.ID, StatusNeedsRevision, "rework ending")
	if err != nil {
		t.Fatalf("needs_revision: %v", err)
	}

	body := "rewritten"
	got, err := env.svc.Edit(context.Background(), "alice", sub.ID, EditRequest{TextBody: &body})
	if err != nil {
		t.Fatalf("edit after needs_revision: %v", err)
	}
	if got.TextBody != "rewritten" {
		t.Fatalf("edit not applied")
	}
}

func TestEdit_PartialUpdateLeavesOtherFields(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", CreateRequest{
		Title: "Molt", Type: TypeWriting, TextBody: "body", Genre: "poetry",
	})

	newTitle := "Molt II"
	got, err := env.svc.Edit(context.Background(), "alice", sub.ID, EditRequest{Title: &newTitle})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if got.Genre != "poetry" || got.TextBody != "body" {
		t.Fatalf("absent fields must be untouched, got %+v", got)
	}
}

/* ===================== STATUS CHANGE ===================== */

func TestChangeStatus_NeedsRevisionRequiresNotes(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", writingReq("Molt"))

	_, err := env.svc.ChangeStatus(context.Background(), committeeCaps("rev"), sub.ID, StatusNeedsRevision, "")
	if !errors.Is(err, ErrNotesRequired) {
		t.Fatalf("expected ErrNotesRequired, got %v", err)
	}

	if _, err := env.svc.ChangeStatus(context.Background(), committeeCaps("rev"), sub.ID, StatusNeedsRevision, "fix pacing"); err != nil {
		t.Fatalf("needs_revision with notes: %v", err)
	}
}

func TestChangeStatus_DecisionTimestamp(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []Status{StatusAccepted, StatusDeclined, StatusNeedsRevision} {
		sub := env.mustCreate(t, "alice", writingReq("Molt"))
		got, err := env.svc.ChangeStatus(context.Background(), committeeCaps("rev"), sub.ID, target, "notes")
		if err != nil {
			t.Fatalf("%s: %v", target, err)
		}
		if got.DecisionDate == nil {
			t.Fatalf("%s must set decision date", target)
		}
	}

	sub := env.mustCreate(t, "alice", writingReq("Molt"))
	got, err := env.svc.ChangeStatus(context.Background(), committeeCaps("rev"), sub.ID, StatusInReview, "")
	if err != nil {
		t.Fatalf("in_review: %v", err)
	}
	if got.DecisionDate != nil {
		t.Fatalf("in_review must not set decision date")
	}
}

func TestChangeStatus_RejectsNonReviewTargets(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", writingReq("Molt"))

	for _, target := range []Status{StatusSubmitted, StatusPublished, "banana"} {
		_, err := env.svc.ChangeStatus(context.Background(), committeeCaps("rev"), sub.ID, target, "n")
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("target %q: expected ErrInvalidArgument, got %v", target, err)
		}
	}
}

func TestChangeStatus_PublishedWorkNeverReentersReview(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", writingReq("Molt"))

	if _, err := env.svc.Publish(context.Background(), eicCaps("eic"), sub.ID, PublishRequest{
		Volume: 1, IssueNumber: 1, PublishDate: "2025-12-01",
	}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	auditsBefore := len(env.audits.Entries())
	mailsBefore := len(env.mail.Sent())

	for _, target := range []Status{StatusInReview, StatusNeedsRevision, StatusAccepted, StatusDeclined} {
		if _, err := env.svc.ChangeStatus(context.Background(), committeeCaps("rev"), sub.ID, target, "n"); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("target %q on published work: expected ErrInvalidArgument, got %v", target, err)
		}
	}

	got, err := env.repo.Get(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Published || got.Status != StatusPublished {
		t.Fatalf("published state must be intact, got published=%v status=%q", got.Published, got.Status)
	}
	if len(env.audits.Entries()) != auditsBefore {
		t.Fatalf("rejected transitions must not be audited")
	}
	if len(env.mail.Sent()) != mailsBefore {
		t.Fatalf("rejected transitions must not email the owner")
	}
}

func TestChangeStatus_NotifiesOwnerPerStatus(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", writingReq("Molt"))

	_, err := env.svc.ChangeStatus(context.Background(), committeeCaps("rev"), sub.ID, StatusInReview, "")
	if err != nil {
		t.Fatalf("in_review: %v", err)
	}
	if len(env.mail.Sent()) != 0 {
		t.Fatalf("in_review must not email")
	}

	_, err = env.svc.ChangeStatus(context.Background(), committeeCaps("rev"), sub.ID, StatusAccepted, "")
	if err != nil {
		t.Fatalf("accepted: %v", err)
	}
	sent := env.mail.Sent()
	if len(sent) != 1 {
		t.Fatalf("accepted must email the owner, got %d mails", len(sent))
	}
	if sent[0].To[0] != "alice@udel.edu" {
		t.Fatalf("mail went to %v", sent[0].To)
	}
}

func TestChangeStatus_NotificationFailureDoesNotFailOperation(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", writingReq("Molt"))
	env.mail.FailWith(errors.New("relay down"))

	got, err := env.svc.ChangeStatus(context.Background(), committeeCaps("rev"), sub.ID, StatusAccepted, "")
	if err != nil {
		t.Fatalf("status change must succeed despite mail failure: %v", err)
	}
	if got.Status != StatusAccepted {
		t.Fatalf("status not applied")
	}
}

func TestChangeStatus_AuditFailureDoesNotFailOperation(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", writingReq("Molt"))
	env.audits.FailWith(errors.New("db down"))

	if _, err := env.svc.ChangeStatus(context.Background(), committeeCaps("rev"), sub.ID, StatusInReview, ""); err != nil {
		t.Fatalf("status change must succeed despite audit failure: %v", err)
	}
}

func TestChangeStatus_AuditsFromAndTo(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", writingReq("Molt"))

	if _, err := env.svc.ChangeStatus(context.Background(), committeeCaps("rev"), sub.ID, StatusInReview, ""); err != nil {
		t.Fatalf("change: %v", err)
	}

	entries := env.audits.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Action != audit.ActionStatusChange || e.SubmissionID != sub.ID || e.ActorID != "rev" {
		t.Fatalf("unexpected entry %+v", e)
	}
	if !strings.Contains(string(e.Details), `"from":"submitted"`) || !strings.Contains(string(e.Details), `"to":"in_review"`) {
		t.Fatalf("details must carry from/to, got %s", e.Details)
	}
}

func TestChangeStatus_RequiresCapability(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", writingReq("Molt"))

	member := capsFor(roles.Record{UserID: "m", IsMember: true, Roles: []string{}, Positions: []string{}})
	if _, err := env.svc.ChangeStatus(context.Background(), member, sub.ID, StatusInReview, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("plain member: expected ErrForbidden, got %v", err)
	}

	legacy := capsFor(roles.Record{UserID: "old", IsMember: true, Roles: []string{roles.RoleLegacyEditor}, Positions: []string{}})
	if _, err := env.svc.ChangeStatus(context.Background(), legacy, sub.ID, StatusInReview, ""); err != nil {
		t.Fatalf("legacy editor role must still pass: %v", err)
	}
}

/* ===================== ASSIGN / NOTES ===================== */

func TestAssign_NullIsIdempotentButIndependentlyAudited(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", writingReq("Molt"))

	for i := 0; i < 2; i++ {
		got, err := env.svc.AssignEditor(context.Background(), eicCaps("eic"), sub.ID, nil)
		if err != nil {
			t.Fatalf("assign %d: %v", i, err)
		}
		if got.AssignedEditor != "" {
			t.Fatalf("expected unassigned, got %q", got.AssignedEditor)
		}
	}

	if got := len(env.audits.Entries()); got != 2 {
		t.Fatalf("each assign call must be independently audited, got %d entries", got)
	}
}

func TestAssign_RequiresEditorTierAndValidUUID(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", writingReq("Molt"))

	plain := capsFor(roles.Record{UserID: "m", IsMember: true, Roles: []string{}, Positions: []string{}})
	editorID := "f47ac10b-58cc-4372-a567-0e02b2c3d479"
	if _, err := env.svc.AssignEditor(context.Background(), plain, sub.ID, &editorID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("member without position assigning: expected ErrForbidden, got %v", err)
	}

	bad := "not-a-uuid"
	if _, err := env.svc.AssignEditor(context.Background(), eicCaps("eic"), sub.ID, &bad); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("bad uuid: expected ErrInvalidArgument, got %v", err)
	}

	got, err := env.svc.AssignEditor(context.Background(), eicCaps("eic"), sub.ID, &editorID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if got.AssignedEditor != editorID {
		t.Fatalf("assignment not applied")
	}
}

func TestSetNotes_Audited(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", writingReq("Molt"))

	got, err := env.svc.SetNotes(context.Background(), eicCaps("eic"), sub.ID, "trim opening")
	if err != nil {
		t.Fatalf("notes: %v", err)
	}
	if got.EditorNotes != "trim opening" {
		t.Fatalf("notes not applied")
	}

	entries := env.audits.Entries()
	if len(entries) != 1 || entries[0].Action != audit.ActionNote {
		t.Fatalf("expected one note audit entry, got %+v", entries)
	}
}

/* ===================== PUBLISH ===================== */

func TestPublish_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", writingReq("Molt"))

	got, err := env.svc.Publish(context.Background(), eicCaps("eic"), sub.ID, PublishRequest{
		Volume: 3, IssueNumber: 2, PublishDate: "2025-12-01",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !got.Published || got.Status != StatusPublished {
		t.Fatalf("publish flags not set: %+v", got)
	}
	if got.IssueLabel() != "Vol. 3, No. 2" {
		t.Fatalf("issue label %q", got.IssueLabel())
	}

	stored, err := env.repo.Get(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.Published || stored.Status != StatusPublished || stored.IssueLabel() != "Vol. 3, No. 2" {
		t.Fatalf("stored state wrong: %+v", stored)
	}
}

func TestPublish_ValidatesFields(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", writingReq("Molt"))

	cases := []PublishRequest{
		{Volume: 0, IssueNumber: 2, PublishDate: "2025-12-01"},
		{Volume: 3, IssueNumber: 0, PublishDate: "2025-12-01"},
		{Volume: 3, IssueNumber: 2, PublishDate: "december"},
	}
	for i, req := range cases {
		if _, err := env.svc.Publish(context.Background(), eicCaps("eic"), sub.ID, req); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("case %d: expected ErrInvalidArgument, got %v", i, err)
		}
	}
}

type failingFetcher struct{}

func (failingFetcher) FetchHTML(ctx context.Context, docID string) (string, error) {
	return "", errors.New("export unavailable")
}

type okFetcher struct{ html string }

func (f okFetcher) FetchHTML(ctx context.Context, docID string) (string, error) {
	return f.html, nil
}

func TestPublish_DocFetchIsBestEffort(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", writingReq("Molt"))

	if _, err := env.svc.ConvertToDoc(context.Background(), eicCaps("eic"), sub.ID, "doc-9"); err != nil {
		t.Fatalf("convert: %v", err)
	}

	env.svc.docs = failingFetcher{}
	got, err := env.svc.Publish(context.Background(), eicCaps("eic"), sub.ID, PublishRequest{
		Volume: 1, IssueNumber: 1, PublishDate: "2025-12-01",
	})
	if err != nil {
		t.Fatalf("publish must proceed without html: %v", err)
	}
	if got.PublishedHTML != "" {
		t.Fatalf("expected empty html after fetch failure")
	}

	env.svc.docs = okFetcher{html: "<h1>Molt</h1>"}
	got, err = env.svc.Publish(context.Background(), eicCaps("eic"), sub.ID, PublishRequest{
		Volume: 1, IssueNumber: 1, PublishDate: "2025-12-01",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got.PublishedHTML != "<h1>Molt</h1>" {
		t.Fatalf("expected fetched html, got %q", got.PublishedHTML)
	}
}

func TestConvertToDoc_Audited(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", writingReq("Molt"))

	if _, err := env.svc.ConvertToDoc(context.Background(), eicCaps("eic"), sub.ID, "doc-1"); err != nil {
		t.Fatalf("convert: %v", err)
	}

	entries := env.audits.Entries()
	if len(entries) != 1 || entries[0].Action != audit.ActionConvertToGDoc {
		t.Fatalf("expected convert audit entry, got %+v", entries)
	}
}

/* ===================== DELETE ===================== */

func TestDelete_AuthorityAndFileCleanup(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", CreateRequest{
		Title: "Roost", Type: TypeVisual,
		ArtFiles:   []string{"art/a.png", "art/b.png"},
		CoverImage: "art/cover.png",
	})
	env.files = storage.NewMemoryStore("art/a.png", "art/b.png", "art/cover.png")
	env.svc.files = env.files

	// Committee role is not enough.
	if _, err := env.svc.Delete(context.Background(), committeeCaps("rev"), sub.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("committee delete: expected ErrForbidden, got %v", err)
	}

	res, err := env.svc.Delete(context.Background(), adminCaps("prez"), sub.ID)
	if err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if res.FilesDeleted != 3 {
		t.Fatalf("expected 3 files deleted, got %d", res.FilesDeleted)
	}
	if _, err := env.repo.Get(context.Background(), sub.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("record must be gone, got %v", err)
	}

	// Final audit entry survives with the dangling submission id.
	entries := env.audits.Entries()
	last := entries[len(entries)-1]
	if last.Action != audit.ActionDeleted || last.SubmissionID != sub.ID {
		t.Fatalf("expected deletion audit entry, got %+v", last)
	}
}

func TestDelete_StorageFailureIsNonFatal(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", CreateRequest{
		Title: "Roost", Type: TypeVisual, ArtFiles: []string{"art/a.png", "art/b.png"},
	})
	env.files = storage.NewMemoryStore("art/a.png", "art/b.png")
	env.files.FailOn("art/b.png")
	env.svc.files = env.files

	res, err := env.svc.Delete(context.Background(), adminCaps("prez"), sub.ID)
	if err != nil {
		t.Fatalf("delete must succeed despite storage failure: %v", err)
	}
	if res.FilesDeleted != 1 {
		t.Fatalf("expected 1 file deleted, got %d", res.FilesDeleted)
	}
}

/* ===================== READS & CACHE ===================== */

func TestGetForActor_Visibility(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", writingReq("Molt"))

	owner := capsFor(roles.Record{UserID: "alice", IsMember: true, Roles: []string{}, Positions: []string{}})
	if _, err := env.svc.GetForActor(context.Background(), owner, sub.ID); err != nil {
		t.Fatalf("owner read: %v", err)
	}

	stranger := capsFor(roles.Record{UserID: "bob", IsMember: true, Roles: []string{}, Positions: []string{}})
	if _, err := env.svc.GetForActor(context.Background(), stranger, sub.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger read: expected ErrForbidden, got %v", err)
	}

	if _, err := env.svc.GetForActor(context.Background(), committeeCaps("rev"), sub.ID); err != nil {
		t.Fatalf("committee read: %v", err)
	}
}

func TestEveryMutationInvalidatesCache(t *testing.T) {
	env := newTestEnv(t)
	sub := env.mustCreate(t, "alice", writingReq("Molt"))

	before := len(env.cache.Invalidations())

	if _, err := env.svc.SetNotes(context.Background(), eicCaps("eic"), sub.ID, "n"); err != nil {
		t.Fatalf("notes: %v", err)
	}
	if _, err := env.svc.ChangeStatus(context.Background(), committeeCaps("rev"), sub.ID, StatusInReview, ""); err != nil {
		t.Fatalf("status: %v", err)
	}
	if _, err := env.svc.Publish(context.Background(), eicCaps("eic"), sub.ID, PublishRequest{Volume: 1, IssueNumber: 1, PublishDate: "2025-12-01"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := env.svc.Delete(context.Background(), adminCaps("prez"), sub.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if got := len(env.cache.Invalidations()) - before; got != 4 {
		t.Fatalf("expected 4 invalidations for 4 mutations, got %d", got)
	}
}
