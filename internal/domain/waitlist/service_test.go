package waitlist

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeRepo struct {
	entries map[string]*Entry
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{entries: make(map[string]*Entry)}
}

func (f *fakeRepo) Create(ctx context.Context, e *Entry) error {
	if existing, ok := f.entries[e.Email]; ok && existing.IsSubscribed() {
		return ErrAlreadyJoined
	}
	f.entries[e.Email] = e
	return nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*Entry, error) {
	return f.entries[email], nil
}

func (f *fakeRepo) Unsubscribe(ctx context.Context, token uuid.UUID) error {
	for _, e := range f.entries {
		if e.UnsubscribeToken == token && !e.UnsubscribedAt.Valid {
			e.UnsubscribedAt = sql.NullTime{Time: time.Now(), Valid: true}
			return nil
		}
	}
	return ErrEntryNotFound
}

func (f *fakeRepo) ListSubscribed(ctx context.Context, limit, offset int) ([]*Entry, error) {
	var out []*Entry
	for _, e := range f.entries {
		if e.IsSubscribed() {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestJoinNormalizesEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, "https://quizhub.test")

	e, err := svc.Join(context.Background(), &JoinRequest{
		Email: "  Fan@Example.COM ",
		Name:  " Alex ",
	})
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if e.Email != "fan@example.com" {
		t.Fatalf("expected normalized email, got %q", e.Email)
	}
	if e.Name != "Alex" {
		t.Fatalf("expected trimmed name, got %q", e.Name)
	}
	if e.UnsubscribeToken == uuid.Nil {
		t.Fatal("expected unsubscribe token assigned")
	}
}

func TestJoinRejectsDuplicate(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, "https://quizhub.test")

	_, err := svc.Join(context.Background(), &JoinRequest{Email: "fan@example.com"})
	if err != nil {
		t.Fatalf("first join failed: %v", err)
	}

	_, err = svc.Join(context.Background(), &JoinRequest{Email: "FAN@example.com"})
	if !errors.Is(err, ErrAlreadyJoined) {
		t.Fatalf("expected ErrAlreadyJoined, got %v", err)
	}
}

func TestUnsubscribeThenRejoin(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, "https://quizhub.test")

	e, err := svc.Join(context.Background(), &JoinRequest{Email: "fan@example.com"})
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}

	if err := svc.Unsubscribe(context.Background(), e.UnsubscribeToken); err != nil {
		t.Fatalf("unsubscribe failed: %v", err)
	}

	// Stale or reused tokens are rejected.
	if err := svc.Unsubscribe(context.Background(), e.UnsubscribeToken); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound on second unsubscribe, got %v", err)
	}

	// An unsubscribed address may join again.
	if _, err := svc.Join(context.Background(), &JoinRequest{Email: "fan@example.com"}); err != nil {
		t.Fatalf("rejoin failed: %v", err)
	}
}

func TestUnsubscribeUnknownToken(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, "https://quizhub.test")

	if err := svc.Unsubscribe(context.Background(), uuid.New()); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}
