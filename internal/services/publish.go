package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"promptstudio-backend/internal/models"
)

// UpdatePublisher fans job progress out to the websocket hub via Redis
// pub/sub, one channel per session.
type UpdatePublisher struct {
	redis *redis.Client
}

func NewUpdatePublisher(redisClient *redis.Client) *UpdatePublisher {
	return &UpdatePublisher{redis: redisClient}
}

func (p *UpdatePublisher) PublishUpdate(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage) {
	data, _ := json.Marshal(msg)
	p.redis.Publish(ctx, fmt.Sprintf("session_updates:%s", sessionID.String()), string(data))
}
