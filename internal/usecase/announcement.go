package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/raian-antunes/group-management-platform/internal/domain"
	"github.com/raian-antunes/group-management-platform/internal/infra/cache"
	"github.com/raian-antunes/group-management-platform/internal/service"
)

const announcementsCacheKey = "announcements:list"

// AnnouncementUsecase serves the read-heavy feed through a short TTL cache
// and fans new posts out to realtime subscribers.
type AnnouncementUsecase struct {
	announcements AnnouncementRepository
	cache         cache.Cache
	signal        *service.SignalService
	ttl           time.Duration
}

func NewAnnouncementUsecase(
	announcements AnnouncementRepository,
	c cache.Cache,
	signal *service.SignalService,
) *AnnouncementUsecase {
	return &AnnouncementUsecase{
		announcements: announcements,
		cache:         c,
		signal:        signal,
		ttl:           30 * time.Second,
	}
}

func (uc *AnnouncementUsecase) List(ctx context.Context) ([]domain.Announcement, error) {
	ctx, span := tracer.Start(ctx, "Announcement.Usecase.List")
	defer span.End()

	if cached, ok := uc.cache.Get(announcementsCacheKey); ok {
		var announcements []domain.Announcement
		if err := json.Unmarshal(cached, &announcements); err == nil {
			return announcements, nil
		}
	}

	announcements, err := uc.announcements.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "AnnouncementUsecase.List failed")
	}

	if serialized, err := json.Marshal(announcements); err == nil {
		uc.cache.Set(announcementsCacheKey, serialized, uc.ttl)
	}

	return announcements, nil
}

type PostAnnouncementInput struct {
	Message string `json:"message" validate:"required"`
}

func (uc *AnnouncementUsecase) Post(ctx context.Context, userID string, input PostAnnouncementInput) (domain.Announcement, error) {
	ctx, span := tracer.Start(ctx, "Announcement.Usecase.Post")
	defer span.End()

	if err := validateInput(input); err != nil {
		return domain.Announcement{}, err
	}

	announcement, err := uc.announcements.Create(ctx, domain.Announcement{
		UserID:  userID,
		Message: input.Message,
	})
	if err != nil {
		span.RecordError(err)
		return domain.Announcement{}, errors.Wrap(err, "AnnouncementUsecase.Post failed")
	}

	uc.cache.Delete(announcementsCacheKey)

	if uc.signal != nil {
		err = uc.signal.Publish(ctx, service.AnnouncementChannel, service.Event{
			Type:         "announcement",
			Announcement: &announcement,
		})
		if err != nil {
			slog.WarnContext(
				ctx, "Failed to publish announcement event",
				slog.String("error", err.Error()),
				slog.String("module", "announcement"),
			)
		}
	}

	return announcement, nil
}
