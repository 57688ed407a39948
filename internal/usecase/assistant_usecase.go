package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"internhub/internal/aiqueue"
)

const maxChatMessageLen = 2000

type StatsProvider interface {
	Stats() aiqueue.Stats
}

type AssistantUsecase interface {
	Chat(ctx context.Context, message string) (string, error)
	Stats(ctx context.Context) aiqueue.Stats
}

type Assistant struct {
	ai    Generator
	stats StatsProvider
}

func NewAssistantUsecase(ai Generator, stats StatsProvider) *Assistant {
	return &Assistant{ai: ai, stats: stats}
}

func (u *Assistant) Chat(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" || utf8.RuneCountInString(message) > maxChatMessageLen {
		return "", ErrInvalidInput
	}

	reply, err := u.ai.Generate(ctx, message)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrAIUnavailable, err)
	}
	return reply, nil
}

func (u *Assistant) Stats(_ context.Context) aiqueue.Stats {
	if u.stats == nil {
		return aiqueue.Stats{}
	}
	return u.stats.Stats()
}
