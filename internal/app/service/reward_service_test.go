package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"codeconnect/internal/domain/model"
	"codeconnect/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRewardFixture() (*RewardService, *fakeSubmissionRepo, *fakeProfileRepo, *fakePublisher) {
	subRepo := newFakeSubmissionRepo()
	profileRepo := newFakeProfileRepo()
	publisher := &fakePublisher{}
	svc := NewRewardService(subRepo, profileRepo, publisher, logger.NewNop())
	return svc, subRepo, profileRepo, publisher
}

func passedSubmission(id, userID string, ref model.ItemRef) *model.Submission {
	return &model.Submission{
		ID:      id,
		UserID:  userID,
		ItemRef: ref,
		Status:  model.StatusPassed,
	}
}

func TestCoinsForDifficulty(t *testing.T) {
	tests := []struct {
		difficulty string
		want       int
	}{
		{"easy", CoinsEasy},
		{"Easy", CoinsEasy},
		{"EASY", CoinsEasy},
		{"medium", CoinsMedium},
		{"Medium", CoinsMedium},
		{"hard", CoinsHard},
		{"Hard", CoinsHard},
		{"", CoinsEasy},
		{"impossible", CoinsEasy},
		{"  hard  ", CoinsHard},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CoinsForDifficulty(tt.difficulty), "difficulty %q", tt.difficulty)
	}
}

func TestEvaluate(t *testing.T) {
	svc, _, _, _ := newRewardFixture()
	ref := model.ItemRef{Kind: model.ItemKindProblem, ID: "p1"}
	item := &model.CatalogItem{Ref: ref, Title: "Two Sum", Difficulty: "Medium"}

	t.Run("passing submission with resolvable item awards", func(t *testing.T) {
		decision := svc.Evaluate(passedSubmission("s1", "u1", ref), item)
		assert.True(t, decision.Awarded)
		assert.Equal(t, CoinsMedium, decision.Coins)
	})

	t.Run("failed submission never awards", func(t *testing.T) {
		sub := passedSubmission("s1", "u1", ref)
		sub.Status = model.StatusFailed
		decision := svc.Evaluate(sub, item)
		assert.False(t, decision.Awarded)
		assert.Zero(t, decision.Coins)
	})

	t.Run("unresolvable item never awards", func(t *testing.T) {
		decision := svc.Evaluate(passedSubmission("s1", "u1", ref), nil)
		assert.False(t, decision.Awarded)
		assert.Zero(t, decision.Coins)
	})
}

func TestApplyFirstPassAwardsOnce(t *testing.T) {
	svc, subRepo, profileRepo, publisher := newRewardFixture()
	ctx := context.Background()
	ref := model.ItemRef{Kind: model.ItemKindProblem, ID: "p1"}
	item := &model.CatalogItem{Ref: ref, Title: "Two Sum", Difficulty: "Hard"}

	coins, err := svc.Apply(ctx, passedSubmission("s1", "u1", ref), item)
	require.NoError(t, err)
	assert.Equal(t, CoinsHard, coins)
	assert.Equal(t, CoinsHard, profileRepo.coins["u1"])

	// Second pass at the same item is free.
	coins, err = svc.Apply(ctx, passedSubmission("s2", "u1", ref), item)
	require.NoError(t, err)
	assert.Zero(t, coins)
	assert.Equal(t, CoinsHard, profileRepo.coins["u1"])

	// Exactly one marker and one reward notification.
	assert.Len(t, subRepo.solved, 1)
	events := publisher.published()
	require.Len(t, events, 1)
	assert.Equal(t, model.EventCoinReward, events[0].Type)
	assert.Equal(t, "u1", events[0].Recipient)
	assert.Equal(t, "Two Sum", events[0].Title)
	assert.Equal(t, "Practice Problem", events[0].Message)
}

func TestApplySameItemDifferentUsersEachAward(t *testing.T) {
	svc, _, profileRepo, _ := newRewardFixture()
	ctx := context.Background()
	ref := model.ItemRef{Kind: model.ItemKindProblem, ID: "p1"}
	item := &model.CatalogItem{Ref: ref, Title: "Two Sum", Difficulty: "easy"}

	for _, userID := range []string{"u1", "u2", "u3"} {
		coins, err := svc.Apply(ctx, passedSubmission("s-"+userID, userID, ref), item)
		require.NoError(t, err)
		assert.Equal(t, CoinsEasy, coins)
	}
	assert.Equal(t, CoinsEasy, profileRepo.coins["u1"])
	assert.Equal(t, CoinsEasy, profileRepo.coins["u2"])
	assert.Equal(t, CoinsEasy, profileRepo.coins["u3"])
}

func TestApplyProblemAndChallengeWithSameIDAreDistinct(t *testing.T) {
	svc, subRepo, profileRepo, _ := newRewardFixture()
	ctx := context.Background()

	problemRef := model.ItemRef{Kind: model.ItemKindProblem, ID: "abc"}
	challengeRef := model.ItemRef{Kind: model.ItemKindChallenge, ID: "abc"}

	coins, err := svc.Apply(ctx, passedSubmission("s1", "u1", problemRef),
		&model.CatalogItem{Ref: problemRef, Title: "Problem", Difficulty: "easy"})
	require.NoError(t, err)
	assert.Equal(t, CoinsEasy, coins)

	coins, err = svc.Apply(ctx, passedSubmission("s2", "u1", challengeRef),
		&model.CatalogItem{Ref: challengeRef, Title: "Challenge", Difficulty: "hard"})
	require.NoError(t, err)
	assert.Equal(t, CoinsHard, coins)

	assert.Len(t, subRepo.solved, 2)
	assert.Equal(t, CoinsEasy+CoinsHard, profileRepo.coins["u1"])
}

func TestApplyConcurrentPassesAwardExactlyOnce(t *testing.T) {
	svc, subRepo, profileRepo, publisher := newRewardFixture()
	ref := model.ItemRef{Kind: model.ItemKindProblem, ID: "p1"}
	item := &model.CatalogItem{Ref: ref, Title: "Two Sum", Difficulty: "Medium"}

	const racers = 16
	var wg sync.WaitGroup
	totals := make([]int, racers)
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sub := passedSubmission("s-"+string(rune('a'+i)), "u1", ref)
			totals[i], errs[i] = svc.Apply(context.Background(), sub, item)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	awarded := 0
	sum := 0
	for _, coins := range totals {
		if coins > 0 {
			awarded++
		}
		sum += coins
	}
	assert.Equal(t, 1, awarded, "exactly one racer should claim the reward")
	assert.Equal(t, CoinsMedium, sum)
	assert.Equal(t, CoinsMedium, profileRepo.coins["u1"])
	assert.Len(t, subRepo.solved, 1)
	assert.Len(t, publisher.published(), 1)
}

func TestApplyCoinUpdateFailureReleasesMarker(t *testing.T) {
	svc, subRepo, profileRepo, publisher := newRewardFixture()
	ctx := context.Background()
	ref := model.ItemRef{Kind: model.ItemKindProblem, ID: "p1"}
	item := &model.CatalogItem{Ref: ref, Title: "Two Sum", Difficulty: "easy"}

	profileRepo.addCoinsErr = errors.New("connection reset")
	coins, err := svc.Apply(ctx, passedSubmission("s1", "u1", ref), item)
	require.Error(t, err)
	assert.Zero(t, coins)
	assert.Empty(t, subRepo.solved, "marker must be released so a retry can claim it")
	assert.Empty(t, publisher.published())

	// A retry after the store recovers succeeds.
	profileRepo.addCoinsErr = nil
	coins, err = svc.Apply(ctx, passedSubmission("s2", "u1", ref), item)
	require.NoError(t, err)
	assert.Equal(t, CoinsEasy, coins)
}

func TestApplyPublishFailureDoesNotRollBackReward(t *testing.T) {
	svc, _, profileRepo, publisher := newRewardFixture()
	ctx := context.Background()
	ref := model.ItemRef{Kind: model.ItemKindChallenge, ID: "c1"}
	item := &model.CatalogItem{Ref: ref, Title: "Build a CLI", Difficulty: "medium"}

	publisher.err = errors.New("redis down")
	coins, err := svc.Apply(ctx, passedSubmission("s1", "u1", ref), item)
	require.NoError(t, err)
	assert.Equal(t, CoinsMedium, coins)
	assert.Equal(t, CoinsMedium, profileRepo.coins["u1"])
}

func TestApplyNotificationShape(t *testing.T) {
	svc, _, _, publisher := newRewardFixture()
	ctx := context.Background()

	t.Run("challenge rewards say company challenge", func(t *testing.T) {
		ref := model.ItemRef{Kind: model.ItemKindChallenge, ID: "c1"}
		item := &model.CatalogItem{Ref: ref, Title: "Build a CLI", Difficulty: "easy"}
		_, err := svc.Apply(ctx, passedSubmission("s1", "u1", ref), item)
		require.NoError(t, err)

		events := publisher.published()
		require.NotEmpty(t, events)
		last := events[len(events)-1]
		assert.Equal(t, "Build a CLI", last.Title)
		assert.Equal(t, "Company Challenge", last.Message)
	})

	t.Run("untitled item falls back to a generic title", func(t *testing.T) {
		ref := model.ItemRef{Kind: model.ItemKindProblem, ID: "p9"}
		item := &model.CatalogItem{Ref: ref, Difficulty: "easy"}
		_, err := svc.Apply(ctx, passedSubmission("s2", "u2", ref), item)
		require.NoError(t, err)

		events := publisher.published()
		require.NotEmpty(t, events)
		last := events[len(events)-1]
		assert.Equal(t, "Problem Solved", last.Title)
		assert.Equal(t, "Practice Problem", last.Message)
	})
}
