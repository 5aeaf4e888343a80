//go:build !integration

package usecase_test

import (
	"context"
	"testing"

	"telegram-relay-bot/internal/domain/ports/adapter"
	"telegram-relay-bot/internal/domain/ports/repository"
	"telegram-relay-bot/internal/usecase"
)

func TestAccessEvaluate(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	t.Run("first contact creates the record before reading it", func(t *testing.T) {
		repo := newMemUserRepo()
		uc := usecase.NewAccessUseCase(repo, newMockBot(), logger)

		allowed, err := uc.Evaluate(ctx, 42)
		if err != nil {
			t.Fatalf("Evaluate returned an error: %v", err)
		}
		if allowed {
			t.Error("expected a brand-new user to be denied")
		}

		u, err := repo.FindByID(ctx, repository.NoTX, 42)
		if err != nil {
			t.Fatalf("expected a record to exist after Evaluate: %v", err)
		}
		if u.Joined {
			t.Error("new record must start with joined=false")
		}
	})

	t.Run("joined users stay allowed regardless of live membership", func(t *testing.T) {
		repo := newMemUserRepo()
		bot := newMockBot()
		bot.Member = adapter.MembershipNotMember // user since left the channel

		uc := usecase.NewAccessUseCase(repo, bot, logger)
		_ = repo.EnsureExists(ctx, repository.NoTX, 42)
		_ = repo.MarkJoined(ctx, repository.NoTX, 42)

		allowed, err := uc.Evaluate(ctx, 42)
		if err != nil {
			t.Fatalf("Evaluate returned an error: %v", err)
		}
		if !allowed {
			t.Error("joined flag is monotonic; Evaluate must keep allowing")
		}
	})

	t.Run("actual members stay denied until the recheck runs", func(t *testing.T) {
		repo := newMemUserRepo()
		bot := newMockBot()
		bot.Member = adapter.MembershipMember // really in the channel

		uc := usecase.NewAccessUseCase(repo, bot, logger)

		allowed, err := uc.Evaluate(ctx, 42)
		if err != nil {
			t.Fatalf("Evaluate returned an error: %v", err)
		}
		if allowed {
			t.Error("membership alone must not open the gate; the recheck does")
		}
	})
}

func TestAccessConfirmJoin(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	t.Run("member confirmation flips the flag and is idempotent", func(t *testing.T) {
		repo := newMemUserRepo()
		bot := newMockBot()
		bot.Member = adapter.MembershipMember

		uc := usecase.NewAccessUseCase(repo, bot, logger)
		_ = repo.EnsureExists(ctx, repository.NoTX, 42)

		for i := 0; i < 2; i++ {
			status, err := uc.ConfirmJoin(ctx, 42)
			if err != nil {
				t.Fatalf("ConfirmJoin #%d returned an error: %v", i+1, err)
			}
			if status != adapter.MembershipMember {
				t.Fatalf("ConfirmJoin #%d: got status %v", i+1, status)
			}
			joined, _ := repo.IsJoined(ctx, repository.NoTX, 42)
			if !joined {
				t.Fatalf("ConfirmJoin #%d: joined flag not set", i+1)
			}
		}
	})

	t.Run("negative and indeterminate checks leave state unchanged", func(t *testing.T) {
		for _, status := range []adapter.MembershipStatus{adapter.MembershipNotMember, adapter.MembershipUnknown} {
			repo := newMemUserRepo()
			bot := newMockBot()
			bot.Member = status

			uc := usecase.NewAccessUseCase(repo, bot, logger)
			_ = repo.EnsureExists(ctx, repository.NoTX, 42)

			got, err := uc.ConfirmJoin(ctx, 42)
			if err != nil {
				t.Fatalf("ConfirmJoin(%v) returned an error: %v", status, err)
			}
			if got != status {
				t.Errorf("ConfirmJoin(%v) reported %v", status, got)
			}
			if joined, _ := repo.IsJoined(ctx, repository.NoTX, 42); joined {
				t.Errorf("ConfirmJoin(%v) must not set joined", status)
			}
		}
	})
}

func TestMembershipStatusString(t *testing.T) {
	cases := map[adapter.MembershipStatus]string{
		adapter.MembershipMember:    "member",
		adapter.MembershipNotMember: "not-member",
		adapter.MembershipUnknown:   "permission-error",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("status %d: got %q, want %q", status, got, want)
		}
	}
}
