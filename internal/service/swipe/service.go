package swipe

import (
	"context"

	"github.com/kindlingapp/kindling/internal/app"
	"github.com/kindlingapp/kindling/internal/db"
	svcErr "github.com/kindlingapp/kindling/internal/errors"
	"github.com/kindlingapp/kindling/internal/repository"
)

// Service is the write side of the swipe ledger plus the mutual-like check
// that feeds the match registry.
type Service struct {
	appCtx    *app.AppContext
	swipeRepo *repository.SwipeRepository
	matchRepo *repository.MatchRepository
	blockRepo *repository.BlockRepository
}

// NewService creates the swipe service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		swipeRepo: repository.NewSwipeRepository(appCtx.DB),
		matchRepo: repository.NewMatchRepository(appCtx.DB),
		blockRepo: repository.NewBlockRepository(appCtx.DB),
	}
}

// Result reports whether a swipe completed a match.
type Result struct {
	Matched bool   `json:"matched"`
	MatchID string `json:"match_id,omitempty"`
}

// Put records one swipe and, for a like/superlike, checks the reverse
// direction of the ledger to decide whether to create a match.
//
// The ledger insert never blocks on existing rows; passes end processing
// immediately. A block in either direction suppresses match creation but the
// swipe row is still recorded.
func (s *Service) Put(ctx context.Context, callerID, swipedID, action string) (*Result, error) {
	if callerID == swipedID {
		return nil, svcErr.InvalidTransition(svcErr.ReasonSelfAction)
	}

	if err := s.swipeRepo.Record(ctx, callerID, swipedID, action); err != nil {
		return nil, svcErr.Storage("record swipe", err)
	}

	if action == db.ActionPass {
		return &Result{Matched: false}, nil
	}

	blocked, err := s.blockRepo.ExistsEither(ctx, callerID, swipedID)
	if err != nil {
		return nil, svcErr.Storage("check blocks", err)
	}
	if blocked {
		// the like is invisible to the target; bumping the counter cache
		// would let it drift above the exclusion-filtered DB count
		return &Result{Matched: false}, nil
	}

	// best effort: the counter cache repopulates from the DB on miss
	_ = s.appCtx.RedisCache.BumpLikeCount(ctx, swipedID, 1)

	liked, err := s.swipeRepo.HasLiked(ctx, swipedID, callerID)
	if err != nil {
		return nil, svcErr.Storage("check mutual like", err)
	}
	if !liked {
		return &Result{Matched: false}, nil
	}

	match, created, err := s.matchRepo.CreateIfAbsent(ctx, callerID, swipedID)
	if err != nil {
		return nil, svcErr.Storage("create match", err)
	}
	if created {
		// the one moment the match event is surfaced; notification dispatch
		// is fire-and-forget and lives outside this engine
		s.appCtx.Logger.Info("match created",
			"match_id", match.ID, "user1", match.User1ID, "user2", match.User2ID)
		_ = s.appCtx.RedisCache.InvalidateLikeCount(ctx, match.User1ID, match.User2ID)
	}

	return &Result{Matched: true, MatchID: match.ID}, nil
}
