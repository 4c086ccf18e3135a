package usecase

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/raian-antunes/group-management-platform/internal/domain"
)

// IntentionUsecase runs the review workflow: public submission, admin
// approval or rejection, invite minting on approval.
type IntentionUsecase struct {
	intentions IntentionRepository
	invites    *InviteUsecase
}

func NewIntentionUsecase(intentions IntentionRepository, invites *InviteUsecase) *IntentionUsecase {
	return &IntentionUsecase{
		intentions: intentions,
		invites:    invites,
	}
}

type CreateIntentionInput struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Company    string `json:"company" validate:"required"`
	Motivation string `json:"motivation" validate:"required"`
}

// ReviewResult reports a status transition. InviteIssued is false either
// for rejections or for the partial-failure case, which Warning describes.
type ReviewResult struct {
	Intention    domain.Intention `json:"intention"`
	Invite       *domain.Invite   `json:"invite,omitempty"`
	InviteIssued bool             `json:"inviteIssued"`
	Warning      string           `json:"warning,omitempty"`
}

func (uc *IntentionUsecase) Create(ctx context.Context, input CreateIntentionInput) (domain.Intention, error) {
	ctx, span := tracer.Start(ctx, "Intention.Usecase.Create")
	defer span.End()

	if err := validateInput(input); err != nil {
		return domain.Intention{}, err
	}

	intention, err := uc.intentions.Create(ctx, domain.Intention{
		Name:       input.Name,
		Email:      input.Email,
		Company:    input.Company,
		Motivation: input.Motivation,
	})
	if err != nil {
		span.RecordError(err)
		return domain.Intention{}, errors.Wrap(err, "IntentionUsecase.Create failed")
	}

	return intention, nil
}

func (uc *IntentionUsecase) Get(ctx context.Context, id string) (domain.Intention, error) {
	return uc.intentions.Get(ctx, id)
}

func (uc *IntentionUsecase) List(ctx context.Context) ([]domain.Intention, error) {
	return uc.intentions.List(ctx)
}

// SetStatus transitions an intention to approved or rejected. Approval
// mints exactly one invite as a follow-up step. The status write is the
// more important fact: if issuance fails afterwards the status stays and
// the result carries a warning instead of rolling back.
func (uc *IntentionUsecase) SetStatus(ctx context.Context, id string, status domain.IntentionStatus) (ReviewResult, error) {
	ctx, span := tracer.Start(ctx, "Intention.Usecase.SetStatus")
	defer span.End()

	if !status.Valid() || !status.Terminal() {
		return ReviewResult{}, domain.NewValidationError("status", "must be one of: approved rejected")
	}

	intention, err := uc.intentions.SetStatus(ctx, id, status)
	if err != nil {
		span.RecordError(err)
		return ReviewResult{}, err
	}

	result := ReviewResult{Intention: intention}

	if status == domain.IntentionApproved {
		invite, err := uc.invites.Issue(ctx, id)
		if err != nil {
			// Dead-end state: approved intention with no invite. Needs a
			// manual re-issue, so make it loud.
			span.RecordError(err)
			slog.ErrorContext(
				ctx, "Status updated but invite creation failed",
				slog.String("intentionId", id),
				slog.String("error", err.Error()),
				slog.String("module", "intention"),
			)
			result.Warning = "status updated, invite creation failed"
			return result, nil
		}
		result.Invite = &invite
		result.InviteIssued = true
	}

	return result, nil
}
