package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/raian-antunes/group-management-platform/internal/domain"
)

// AnnouncementChannel is the redis pub/sub channel for broadcast events.
const AnnouncementChannel = "announcements"

// Event is the payload pushed to realtime dashboard clients.
type Event struct {
	Type         string               `json:"type"`
	Announcement *domain.Announcement `json:"announcement,omitempty"`
}

type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) Publish(ctx context.Context, channel string, event Event) error {

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, channel, jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}

// Realtime forwards events from the redis subscription into output until
// the context is cancelled.
func (s *SignalService) Realtime(ctx context.Context, channel string, output chan<- Event) {

	pubsub := s.rdb.Subscribe(ctx, channel)
	defer pubsub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case message, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			var event Event
			err := json.Unmarshal([]byte(message.Payload), &event)
			if err != nil {
				slog.ErrorContext(
					ctx, "Error decoding event",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}
			select {
			case output <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}
