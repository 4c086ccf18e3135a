package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/raian-antunes/group-management-platform/internal/domain"
)

var tracer = otel.Tracer("usecase")

// InviteUsecase mediates the full lifetime of an invite token: minted once
// per approval, consumable exactly once.
type InviteUsecase struct {
	invites    InviteRepository
	intentions IntentionRepository
	baseURL    string
}

func NewInviteUsecase(invites InviteRepository, intentions IntentionRepository, baseURL string) *InviteUsecase {
	return &InviteUsecase{
		invites:    invites,
		intentions: intentions,
		baseURL:    baseURL,
	}
}

// TokenStatus is the outcome of a read-only token check.
type TokenStatus struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Issue mints a fresh random token for the intention and persists it
// unconsumed. The token is a v4 UUID, unguessable by construction.
func (uc *InviteUsecase) Issue(ctx context.Context, intentionID string) (domain.Invite, error) {
	ctx, span := tracer.Start(ctx, "Invite.Usecase.Issue")
	defer span.End()

	invite, err := uc.invites.Create(ctx, domain.Invite{
		Token:       uuid.NewString(),
		IntentionID: intentionID,
	})
	if err != nil {
		span.RecordError(err)
		return domain.Invite{}, errors.Wrap(err, "InviteUsecase.Issue failed")
	}

	slog.InfoContext(
		ctx, "Invite issued",
		slog.String("intentionId", intentionID),
		slog.String("signupURL", uc.baseURL+"/signup?token="+invite.Token),
		slog.String("module", "invite"),
	)

	return invite, nil
}

// Validate is a read-only usability check. Showing a signup form must be
// repeatable, so this never touches used_at.
func (uc *InviteUsecase) Validate(ctx context.Context, token string) (TokenStatus, error) {
	ctx, span := tracer.Start(ctx, "Invite.Usecase.Validate")
	defer span.End()

	invite, err := uc.invites.GetByToken(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return TokenStatus{Valid: false, Reason: "not found"}, nil
	}
	if err != nil {
		span.RecordError(err)
		return TokenStatus{}, errors.Wrap(err, "InviteUsecase.Validate failed")
	}

	if invite.Consumed() {
		return TokenStatus{Valid: false, Reason: "already used"}, nil
	}

	return TokenStatus{Valid: true}, nil
}

// Lookup returns the invite joined with its intention, for the signup page
// to prefill from.
func (uc *InviteUsecase) Lookup(ctx context.Context, token string) (domain.Invite, domain.Intention, error) {
	ctx, span := tracer.Start(ctx, "Invite.Usecase.Lookup")
	defer span.End()

	invite, err := uc.invites.GetByToken(ctx, token)
	if err != nil {
		span.RecordError(err)
		return domain.Invite{}, domain.Intention{}, err
	}

	intention, err := uc.intentions.Get(ctx, invite.IntentionID)
	if err != nil {
		span.RecordError(err)
		return domain.Invite{}, domain.Intention{}, err
	}

	return invite, intention, nil
}

// Consume marks the token used, failing with a conflict if another signup
// got there first. The precondition lives in the repository's conditional
// write, not here.
func (uc *InviteUsecase) Consume(ctx context.Context, token string) (domain.Invite, error) {
	ctx, span := tracer.Start(ctx, "Invite.Usecase.Consume")
	defer span.End()

	invite, err := uc.invites.Consume(ctx, token)
	if err != nil {
		span.RecordError(err)
		return domain.Invite{}, err
	}

	return invite, nil
}
