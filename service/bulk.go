package service

import (
	"context"
	"time"

	"github.com/Rafsilva0/demo-automation/logger"
	"go.uber.org/zap"
)

type conversationCreator interface {
	CreateConversation(ctx context.Context, baseUrl string, apiKey string, channelId string) (conversationId string, endUserId string, err error)
	CreateMessage(ctx context.Context, baseUrl string, apiKey string, conversationId string, endUserId string, content string) error
}

// ConversationSeeder fills a channel with one seeded conversation per
// question. Creation is paced, failures are counted per item and never
// stop the batch.
type ConversationSeeder struct {
	creator conversationCreator
	pace    time.Duration
}

type SeedResult struct {
	Created int
	Failed  int
}

func NewConversationSeeder(creator conversationCreator, pace time.Duration) *ConversationSeeder {
	return &ConversationSeeder{creator: creator, pace: pace}
}

// CreateBatch attempts every question exactly once. A failed item is
// logged and counted; the next item is still attempted after the pacing
// delay. Context cancellation stops the batch between items.
func (s *ConversationSeeder) CreateBatch(ctx context.Context, baseUrl string, apiKey string, channelId string, questions []string) SeedResult {
	var result SeedResult
	for i, question := range questions {
		if i > 0 && s.pace > 0 {
			select {
			case <-time.After(s.pace):
			case <-ctx.Done():
				logger.Warn("conversation batch cancelled",
					zap.Int("created", result.Created), zap.Int("failed", result.Failed))
				return result
			}
		}
		if err := s.seedOne(ctx, baseUrl, apiKey, channelId, question); err != nil {
			result.Failed++
			logger.Warn("conversation seeding failed",
				zap.Int("index", i), zap.Error(err))
			continue
		}
		result.Created++
	}
	logger.Info("conversation batch done",
		zap.String("baseUrl", baseUrl),
		zap.Int("created", result.Created), zap.Int("failed", result.Failed))
	return result
}

func (s *ConversationSeeder) seedOne(ctx context.Context, baseUrl string, apiKey string, channelId string, question string) error {
	conversationId, endUserId, err := s.creator.CreateConversation(ctx, baseUrl, apiKey, channelId)
	if err != nil {
		return err
	}
	return s.creator.CreateMessage(ctx, baseUrl, apiKey, conversationId, endUserId, question)
}
