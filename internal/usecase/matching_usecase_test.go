package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"internhub/internal/aiqueue"
	"internhub/internal/domain/user"
)

func TestMatching_Match_UsesProfile(t *testing.T) {
	items := sampleListings()
	uid := uuid.New()
	profiles := &fakeProfiles{profiles: map[uuid.UUID]user.Profile{uid: {
		UserID:           uid,
		Skills:           []string{"golang"},
		PreferredSectors: []string{"technology"},
	}}}
	uc := NewMatchingUsecase(fakeCatalog{items: items}, profiles, &fakeGenerator{})

	view, err := uc.Match(context.Background(), uid, items[0].ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if view.Result.MatchScore != 60 {
		t.Fatalf("expected score 60, got %d", view.Result.MatchScore)
	}
	if len(view.Result.MissingSkills) != 1 || view.Result.MissingSkills[0] != "SQL" {
		t.Fatalf("unexpected missing skills %v", view.Result.MissingSkills)
	}
}

func TestMatching_Match_Errors(t *testing.T) {
	items := sampleListings()
	uc := NewMatchingUsecase(fakeCatalog{items: items}, &fakeProfiles{}, &fakeGenerator{})

	if _, err := uc.Match(context.Background(), uuid.Nil, items[0].ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := uc.Match(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, ErrInternshipNotFound) {
		t.Fatalf("expected ErrInternshipNotFound, got %v", err)
	}

	broken := NewMatchingUsecase(fakeCatalog{items: items}, &fakeProfiles{err: errors.New("db down")}, &fakeGenerator{})
	if _, err := broken.Match(context.Background(), uuid.New(), items[0].ID); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestMatching_Commentary(t *testing.T) {
	items := sampleListings()
	gen := &fakeGenerator{reply: "Strong fit."}
	uc := NewMatchingUsecase(fakeCatalog{items: items}, &fakeProfiles{}, gen)

	text, err := uc.Commentary(context.Background(), uuid.New(), items[0].ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if text != "Strong fit." {
		t.Fatalf("unexpected text %q", text)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("expected one prompt, got %d", len(gen.prompts))
	}
	p := gen.prompts[0]
	if !strings.Contains(p, "Backend Intern at Acme") || !strings.Contains(p, "Student skills: none listed") {
		t.Fatalf("prompt missing listing or profile details:\n%s", p)
	}
}

func TestMatching_Commentary_AIFailure(t *testing.T) {
	items := sampleListings()
	upstream := &aiqueue.Error{Kind: aiqueue.KindRetryable, Attempts: 4, Err: aiqueue.ErrRetriesExhausted}
	uc := NewMatchingUsecase(fakeCatalog{items: items}, &fakeProfiles{}, &fakeGenerator{err: upstream})

	_, err := uc.Commentary(context.Background(), uuid.New(), items[0].ID)
	if !errors.Is(err, ErrAIUnavailable) {
		t.Fatalf("expected ErrAIUnavailable, got %v", err)
	}
	if !errors.Is(err, aiqueue.ErrRetriesExhausted) {
		t.Fatalf("expected cause kept in chain, got %v", err)
	}
}

func TestMatching_Commentary_CallerCancelled(t *testing.T) {
	items := sampleListings()
	uc := NewMatchingUsecase(fakeCatalog{items: items}, &fakeProfiles{}, &fakeGenerator{err: context.Canceled})

	_, err := uc.Commentary(context.Background(), uuid.New(), items[0].ID)
	if !errors.Is(err, context.Canceled) || errors.Is(err, ErrAIUnavailable) {
		t.Fatalf("expected bare context.Canceled, got %v", err)
	}
}

type fixedStats struct{ s aiqueue.Stats }

func (f fixedStats) Stats() aiqueue.Stats { return f.s }

func TestAssistant_Chat(t *testing.T) {
	gen := &fakeGenerator{reply: "Try the Pune listings."}
	uc := NewAssistantUsecase(gen, fixedStats{s: aiqueue.Stats{Dispatched: 3}})

	if _, err := uc.Chat(context.Background(), "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank message, got %v", err)
	}
	if _, err := uc.Chat(context.Background(), strings.Repeat("a", maxChatMessageLen+1)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for long message, got %v", err)
	}

	reply, err := uc.Chat(context.Background(), " where should I apply? ")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if reply != "Try the Pune listings." || gen.prompts[0] != "where should I apply?" {
		t.Fatalf("unexpected reply %q or prompt %q", reply, gen.prompts[0])
	}
	if uc.Stats(context.Background()).Dispatched != 3 {
		t.Fatalf("expected stats passed through")
	}

	gen.err = errors.New("boom")
	if _, err := uc.Chat(context.Background(), "again"); !errors.Is(err, ErrAIUnavailable) {
		t.Fatalf("expected ErrAIUnavailable, got %v", err)
	}
}
