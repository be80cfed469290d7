package service

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/google/uuid"

	"github.com/quantummesh/impactview/internal/entity"
	"github.com/quantummesh/impactview/internal/modules/action/dto"
	actionRepo "github.com/quantummesh/impactview/internal/modules/action/repository"
	"github.com/quantummesh/impactview/internal/modules/analysis"
	attachmentService "github.com/quantummesh/impactview/internal/modules/attachment/service"
)

type stubActionRepo struct {
	actionRepo.ActionRepository
	create func(ctx context.Context, action *entity.Action) error
}

func (s *stubActionRepo) Create(ctx context.Context, action *entity.Action) error {
	return s.create(ctx, action)
}

type stubAnalyzer struct{}

func (stubAnalyzer) AnalyzeAction(ctx context.Context, actionID uuid.UUID) (*analysis.Result, error) {
	return nil, nil
}

type stubAttachments struct {
	bind func(ctx context.Context, userID, actionID uuid.UUID, attachmentIDs []uint) error
}

func (s *stubAttachments) Upload(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (*attachmentService.UploadResponse, error) {
	return nil, nil
}

func (s *stubAttachments) BindToAction(ctx context.Context, userID, actionID uuid.UUID, attachmentIDs []uint) error {
	return s.bind(ctx, userID, actionID, attachmentIDs)
}

func (s *stubAttachments) CleanupOrphans(ctx context.Context) error {
	return nil
}

func TestSubmitClaimsUploadedAttachments(t *testing.T) {
	userID := uuid.New()
	created := uuid.New()

	repo := &stubActionRepo{create: func(ctx context.Context, action *entity.Action) error {
		action.ID = created
		return nil
	}}

	var boundAction uuid.UUID
	var boundIDs []uint
	attachments := &stubAttachments{bind: func(ctx context.Context, uid, aid uuid.UUID, ids []uint) error {
		if uid != userID {
			t.Errorf("bound for user %s, want %s", uid, userID)
		}
		boundAction = aid
		boundIDs = ids
		return nil
	}}

	svc := NewActionService(repo, stubAnalyzer{}, nil, attachments, nil, 0)
	_, err := svc.Submit(context.Background(), userID, dto.SubmitActionInput{
		Description:   "Cleaned up the riverside park this morning",
		AttachmentIDs: []uint{3, 7},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if boundAction != created {
		t.Errorf("attachments bound to %s, want %s", boundAction, created)
	}
	if len(boundIDs) != 2 || boundIDs[0] != 3 || boundIDs[1] != 7 {
		t.Errorf("bound ids = %v", boundIDs)
	}
}

func TestSubmitFailsWhenAttachmentBindFails(t *testing.T) {
	repo := &stubActionRepo{create: func(ctx context.Context, action *entity.Action) error {
		action.ID = uuid.New()
		return nil
	}}
	attachments := &stubAttachments{bind: func(ctx context.Context, uid, aid uuid.UUID, ids []uint) error {
		return errors.New("attachments not owned by user")
	}}

	svc := NewActionService(repo, stubAnalyzer{}, nil, attachments, nil, 0)
	_, err := svc.Submit(context.Background(), uuid.New(), dto.SubmitActionInput{
		Description:   "Planted a dozen trees along the greenway",
		AttachmentIDs: []uint{1},
	})
	if err == nil {
		t.Fatal("expected an error when binding fails")
	}
}

func TestTransitionAllowed(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{entity.ActionStatusPending, entity.ActionStatusApproved, true},
		{entity.ActionStatusPending, entity.ActionStatusRejected, true},
		{entity.ActionStatusPending, entity.ActionStatusVerified, false},
		{entity.ActionStatusApproved, entity.ActionStatusVerified, true},
		{entity.ActionStatusApproved, entity.ActionStatusRejected, true},
		{entity.ActionStatusApproved, entity.ActionStatusPending, false},
		{entity.ActionStatusRejected, entity.ActionStatusPending, true},
		{entity.ActionStatusVerified, entity.ActionStatusRejected, false},
		{entity.ActionStatusVerified, entity.ActionStatusPending, false},
		{"bogus", entity.ActionStatusApproved, false},
	}
	for _, c := range cases {
		if got := transitionAllowed(c.from, c.to); got != c.want {
			t.Errorf("transitionAllowed(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestBuildListResponsePagination(t *testing.T) {
	actions := make([]entity.Action, 3)
	resp := buildListResponse(actions, 45, 2, 20)

	if len(resp.Actions) != 3 {
		t.Fatalf("items = %d, want 3", len(resp.Actions))
	}
	if resp.Meta.TotalPages != 3 {
		t.Errorf("total pages = %d, want 3", resp.Meta.TotalPages)
	}
	if resp.Meta.CurrentPage != 2 || resp.Meta.TotalItems != 45 || resp.Meta.Limit != 20 {
		t.Errorf("meta = %+v", resp.Meta)
	}
}
