package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeCreator struct {
	failConversationAt map[int]bool
	failMessageAt      map[int]bool
	conversations      int
	messages           []string
}

func (f *fakeCreator) CreateConversation(ctx context.Context, baseUrl string, apiKey string, channelId string) (string, string, error) {
	idx := f.conversations
	f.conversations++
	if f.failConversationAt[idx] {
		return "", "", errors.New("conversation create rejected")
	}
	return fmt.Sprintf("conv-%d", idx), fmt.Sprintf("user-%d", idx), nil
}

func (f *fakeCreator) CreateMessage(ctx context.Context, baseUrl string, apiKey string, conversationId string, endUserId string, content string) error {
	if f.failMessageAt[f.conversations-1] {
		return errors.New("message create rejected")
	}
	f.messages = append(f.messages, content)
	return nil
}

func questions(n int) []string {
	qs := make([]string, n)
	for i := range qs {
		qs[i] = fmt.Sprintf("question %d?", i)
	}
	return qs
}

func TestCreateBatch(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T){
		"all items succeed": func(t *testing.T) {
			creator := &fakeCreator{}
			seeder := NewConversationSeeder(creator, 0)
			result := seeder.CreateBatch(context.Background(), "https://acme.example.com", "key", "chan-1", questions(5))
			require.Equal(t, 5, result.Created)
			require.Equal(t, 0, result.Failed)
			require.Len(t, creator.messages, 5)
		},
		"failures are counted but do not stop the batch": func(t *testing.T) {
			creator := &fakeCreator{failConversationAt: map[int]bool{3: true, 7: true}}
			seeder := NewConversationSeeder(creator, 0)
			result := seeder.CreateBatch(context.Background(), "https://acme.example.com", "key", "chan-1", questions(10))
			require.Equal(t, 8, result.Created)
			require.Equal(t, 2, result.Failed)
			require.Equal(t, 10, creator.conversations)
		},
		"message failure counts the item as failed": func(t *testing.T) {
			creator := &fakeCreator{failMessageAt: map[int]bool{0: true}}
			seeder := NewConversationSeeder(creator, 0)
			result := seeder.CreateBatch(context.Background(), "https://acme.example.com", "key", "chan-1", questions(3))
			require.Equal(t, 2, result.Created)
			require.Equal(t, 1, result.Failed)
		},
		"empty batch": func(t *testing.T) {
			seeder := NewConversationSeeder(&fakeCreator{}, 0)
			result := seeder.CreateBatch(context.Background(), "https://acme.example.com", "key", "chan-1", nil)
			require.Equal(t, 0, result.Created)
			require.Equal(t, 0, result.Failed)
		},
		"cancelled context stops between items": func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			creator := &fakeCreator{}
			seeder := NewConversationSeeder(creator, 1)
			result := seeder.CreateBatch(ctx, "https://acme.example.com", "key", "chan-1", questions(5))
			require.Equal(t, 1, result.Created)
			require.Equal(t, 1, creator.conversations)
			require.Equal(t, 0, result.Failed)
		},
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t)
		})
	}
}
