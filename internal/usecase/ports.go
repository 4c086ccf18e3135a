package usecase

import (
	"context"

	"github.com/raian-antunes/group-management-platform/internal/domain"
)

// InviteRepository defines persistence for invite tokens. Consume must be
// atomic with respect to its own used_at precondition.
type InviteRepository interface {
	Create(ctx context.Context, invite domain.Invite) (domain.Invite, error)
	GetByToken(ctx context.Context, token string) (domain.Invite, error)
	Consume(ctx context.Context, token string) (domain.Invite, error)
}

// IntentionRepository defines persistence for membership applications.
type IntentionRepository interface {
	Create(ctx context.Context, intention domain.Intention) (domain.Intention, error)
	Get(ctx context.Context, id string) (domain.Intention, error)
	List(ctx context.Context) ([]domain.Intention, error)
	SetStatus(ctx context.Context, id string, status domain.IntentionStatus) (domain.Intention, error)
}

// UserRepository defines persistence for accounts.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	Get(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Update(ctx context.Context, id string, fields map[string]any) (domain.User, error)
}

// AnnouncementRepository defines persistence for broadcast messages.
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement domain.Announcement) (domain.Announcement, error)
	List(ctx context.Context) ([]domain.Announcement, error)
}
