package relationship

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kindlingapp/kindling/internal/app"
	"github.com/kindlingapp/kindling/internal/db"
	svcErr "github.com/kindlingapp/kindling/internal/errors"
	"github.com/kindlingapp/kindling/internal/repository"
)

// Service is the relationship state machine. It governs the transitions among
// matched / unmatched / rematch-pending / rematch-resolved for each unordered
// user pair, with blocking as an orthogonal, matching-terminal flag.
//
// Multi-step flows (unmatch → request → accept/reject) span separate user
// actions with no lock held in between: every transition re-validates the
// persisted rematch_status instead of assuming it, and the repository's
// status-gated updates decide races.
type Service struct {
	appCtx      *app.AppContext
	matchRepo   *repository.MatchRepository
	unmatchRepo *repository.UnmatchRepository
	blockRepo   *repository.BlockRepository
}

// NewService creates the relationship service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		matchRepo:   repository.NewMatchRepository(appCtx.DB),
		unmatchRepo: repository.NewUnmatchRepository(appCtx.DB),
		blockRepo:   repository.NewBlockRepository(appCtx.DB),
	}
}

// RematchResult reports the pair's state after a rematch transition.
type RematchResult struct {
	Status  string `json:"status"`
	MatchID string `json:"match_id,omitempty"`
}

// Unmatch dissolves a match on behalf of one of its two members. The archive
// row is written before the Match row is deleted, in one transaction, so
// messages keyed by the old match id always have an owner record.
func (s *Service) Unmatch(ctx context.Context, callerID, matchID string) error {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.ErrNotFound
	}
	if err != nil {
		return svcErr.Storage("load match", err)
	}
	if callerID != match.User1ID && callerID != match.User2ID {
		return svcErr.InvalidTransition(svcErr.ReasonNotParticipant)
	}

	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.NewUnmatchRepository(tx).Create(ctx, match.ID, match.User1ID, match.User2ID, callerID); err != nil {
			return err
		}
		return repository.NewMatchRepository(tx).Delete(ctx, match.ID)
	})
	if err != nil {
		return svcErr.Storage("unmatch", err)
	}

	s.appCtx.Logger.Info("unmatched", "match_id", match.ID, "by", callerID)
	return nil
}

// BlockInput carries the block payload. MatchID and the report fields are
// optional.
type BlockInput struct {
	TargetID string
	MatchID  string
	Reason   string
	Details  string
}

// Block upserts caller → target and, when a match id is supplied and the
// caller belongs to it, deletes the Match. No Unmatch row is written for a
// block-induced deletion: the block alone records the severed relationship,
// and no rematch is ever permitted while it exists. A non-empty reason also
// attaches a report.
func (s *Service) Block(ctx context.Context, callerID string, in BlockInput) error {
	if callerID == in.TargetID {
		return svcErr.InvalidTransition(svcErr.ReasonSelfAction)
	}

	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		blocks := repository.NewBlockRepository(tx)
		if err := blocks.Upsert(ctx, callerID, in.TargetID); err != nil {
			return err
		}

		if in.MatchID != "" {
			matches := repository.NewMatchRepository(tx)
			match, err := matches.GetByID(ctx, in.MatchID)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				// already gone, nothing to sever
			case err != nil:
				return err
			case callerID == match.User1ID || callerID == match.User2ID:
				if err := matches.Delete(ctx, match.ID); err != nil {
					return err
				}
			}
		}

		if in.Reason != "" {
			return blocks.UpsertReport(ctx, callerID, in.TargetID, in.Reason, in.Details)
		}
		return nil
	})
	if err != nil {
		return svcErr.Storage("block", err)
	}

	// blocks change the exclusion set for both sides
	_ = s.appCtx.RedisCache.InvalidateLikeCount(ctx, callerID, in.TargetID)

	s.appCtx.Logger.Info("blocked", "blocker", callerID, "blocked", in.TargetID)
	return nil
}

// RequestRematch opens the rematch handshake for a previously unmatched pair.
//
// If a match already exists by the time of the call (created through another
// path, e.g. an accepted compliment) the stale archive row is dropped and the
// existing match is reported instead.
func (s *Service) RequestRematch(ctx context.Context, callerID, otherID string) (*RematchResult, error) {
	if callerID == otherID {
		return nil, svcErr.InvalidTransition(svcErr.ReasonSelfAction)
	}

	blocked, err := s.blockRepo.ExistsEither(ctx, callerID, otherID)
	if err != nil {
		return nil, svcErr.Storage("check blocks", err)
	}
	if blocked {
		return nil, svcErr.InvalidTransition(svcErr.ReasonBlockedPair)
	}

	if match, err := s.matchRepo.GetByPair(ctx, callerID, otherID); err == nil {
		if um, err := s.unmatchRepo.GetByPair(ctx, callerID, otherID); err == nil {
			_ = s.unmatchRepo.Delete(ctx, um.ID)
		}
		return &RematchResult{Status: "matched", MatchID: match.ID}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.Storage("load match", err)
	}

	um, err := s.unmatchRepo.GetByPair(ctx, callerID, otherID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.InvalidTransition(svcErr.ReasonNoUnmatchRecord)
	}
	if err != nil {
		return nil, svcErr.Storage("load unmatch", err)
	}

	switch um.RematchStatus {
	case db.RematchPending:
		return nil, svcErr.InvalidTransition(svcErr.ReasonAlreadyPending)
	case db.RematchRejected:
		// terminal: once rejected, no further requests from either party
		return nil, svcErr.InvalidTransition(svcErr.ReasonRematchRejected)
	}

	ok, err := s.unmatchRepo.MarkPending(ctx, um.ID, callerID)
	if err != nil {
		return nil, svcErr.Storage("mark pending", err)
	}
	if !ok {
		// lost a race against a concurrent transition; report current state
		if cur, err := s.unmatchRepo.GetByPair(ctx, callerID, otherID); err == nil && cur.RematchStatus == db.RematchRejected {
			return nil, svcErr.InvalidTransition(svcErr.ReasonRematchRejected)
		}
		return nil, svcErr.InvalidTransition(svcErr.ReasonAlreadyPending)
	}

	s.appCtx.Logger.Info("rematch requested", "by", callerID, "other", otherID)
	return &RematchResult{Status: db.RematchPending}, nil
}

// AcceptRematch completes the handshake from the counterpart's side: a new
// Match row is minted through the registry (unless one already exists) and
// the archive row is deleted, in one transaction gated on the row still being
// pending.
func (s *Service) AcceptRematch(ctx context.Context, callerID, otherID string) (*RematchResult, error) {
	if callerID == otherID {
		return nil, svcErr.InvalidTransition(svcErr.ReasonSelfAction)
	}

	um, err := s.unmatchRepo.GetByPair(ctx, callerID, otherID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.InvalidTransition(svcErr.ReasonNoUnmatchRecord)
	}
	if err != nil {
		return nil, svcErr.Storage("load unmatch", err)
	}

	if um.RematchStatus != db.RematchPending {
		return nil, svcErr.InvalidTransition(svcErr.ReasonNotPending)
	}
	if um.RematchRequestedBy == callerID {
		return nil, svcErr.InvalidTransition(svcErr.ReasonNotCounterparty)
	}

	blocked, err := s.blockRepo.ExistsEither(ctx, callerID, otherID)
	if err != nil {
		return nil, svcErr.Storage("check blocks", err)
	}
	if blocked {
		return nil, svcErr.InvalidTransition(svcErr.ReasonBlockedPair)
	}

	var match *db.Match
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := repository.NewUnmatchRepository(tx).DeletePending(ctx, um.ID)
		if err != nil {
			return err
		}
		if !ok {
			return svcErr.InvalidTransition(svcErr.ReasonNotPending)
		}
		match, _, err = repository.NewMatchRepository(tx).CreateIfAbsent(ctx, callerID, otherID)
		return err
	})
	if err != nil {
		if svcErr.IsInvalidTransition(err) {
			return nil, err
		}
		return nil, svcErr.Storage("accept rematch", err)
	}

	s.appCtx.Logger.Info("rematch accepted",
		"match_id", match.ID, "by", callerID, "requested_by", um.RematchRequestedBy)
	return &RematchResult{Status: "matched", MatchID: match.ID}, nil
}

// RejectRematch declines a pending request. Rejection is terminal for the
// pair: no later request from either party will be accepted.
func (s *Service) RejectRematch(ctx context.Context, callerID, otherID string) (*RematchResult, error) {
	if callerID == otherID {
		return nil, svcErr.InvalidTransition(svcErr.ReasonSelfAction)
	}

	um, err := s.unmatchRepo.GetByPair(ctx, callerID, otherID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.InvalidTransition(svcErr.ReasonNoUnmatchRecord)
	}
	if err != nil {
		return nil, svcErr.Storage("load unmatch", err)
	}

	if um.RematchStatus != db.RematchPending {
		return nil, svcErr.InvalidTransition(svcErr.ReasonNotPending)
	}
	if um.RematchRequestedBy == callerID {
		return nil, svcErr.InvalidTransition(svcErr.ReasonNotCounterparty)
	}

	ok, err := s.unmatchRepo.MarkRejected(ctx, um.ID)
	if err != nil {
		return nil, svcErr.Storage("mark rejected", err)
	}
	if !ok {
		return nil, svcErr.InvalidTransition(svcErr.ReasonNotPending)
	}

	s.appCtx.Logger.Info("rematch rejected", "by", callerID, "other", otherID)
	return &RematchResult{Status: db.RematchRejected}, nil
}
