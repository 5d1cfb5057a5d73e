package compliment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kindlingapp/kindling/internal/app"
	"github.com/kindlingapp/kindling/internal/db"
	svcErr "github.com/kindlingapp/kindling/internal/errors"
	"github.com/kindlingapp/kindling/internal/repository"
)

// Service handles compliment openers. An accepted compliment creates a Match
// through the same registry the swipe path uses, and seeds the compliment
// text as the first chat message.
type Service struct {
	appCtx         *app.AppContext
	complimentRepo *repository.ComplimentRepository
	matchRepo      *repository.MatchRepository
	blockRepo      *repository.BlockRepository
}

// NewService creates the compliment service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:         appCtx,
		complimentRepo: repository.NewComplimentRepository(appCtx.DB),
		matchRepo:      repository.NewMatchRepository(appCtx.DB),
		blockRepo:      repository.NewBlockRepository(appCtx.DB),
	}
}

// Send delivers a compliment from the caller to a recipient. At most one
// exists per ordered pair; re-sending refreshes the text of a still-pending
// one but cannot resurrect a resolved one.
func (s *Service) Send(ctx context.Context, callerID, recipientID, message string) error {
	if callerID == recipientID {
		return svcErr.InvalidTransition(svcErr.ReasonSelfAction)
	}

	blocked, err := s.blockRepo.ExistsEither(ctx, callerID, recipientID)
	if err != nil {
		return svcErr.Storage("check blocks", err)
	}
	if blocked {
		return svcErr.InvalidTransition(svcErr.ReasonBlockedPair)
	}

	if err := s.complimentRepo.Upsert(ctx, callerID, recipientID, message); err != nil {
		return svcErr.Storage("send compliment", err)
	}
	return nil
}

// AcceptResult reports the match created by accepting a compliment.
type AcceptResult struct {
	MatchID string `json:"match_id"`
}

// Accept resolves a pending compliment from senderID into a match. The
// compliment message becomes the first message of the new chat.
func (s *Service) Accept(ctx context.Context, callerID, senderID string) (*AcceptResult, error) {
	compliment, err := s.load(ctx, callerID, senderID)
	if err != nil {
		return nil, err
	}

	blocked, err := s.blockRepo.ExistsEither(ctx, callerID, senderID)
	if err != nil {
		return nil, svcErr.Storage("check blocks", err)
	}
	if blocked {
		return nil, svcErr.InvalidTransition(svcErr.ReasonBlockedPair)
	}

	var matchID string
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := repository.NewComplimentRepository(tx).Resolve(ctx, compliment.ID, db.ComplimentAccepted)
		if err != nil {
			return err
		}
		if !ok {
			return svcErr.InvalidTransition(svcErr.ReasonComplimentHandled)
		}

		match, created, err := repository.NewMatchRepository(tx).CreateIfAbsent(ctx, callerID, senderID)
		if err != nil {
			return err
		}
		matchID = match.ID

		if created {
			return repository.NewMessageRepository(tx).Append(ctx, match.ID, senderID, compliment.Message)
		}
		return nil
	})
	if err != nil {
		if svcErr.IsInvalidTransition(err) {
			return nil, err
		}
		return nil, svcErr.Storage("accept compliment", err)
	}

	s.appCtx.Logger.Info("compliment accepted",
		"match_id", matchID, "sender", senderID, "recipient", callerID)
	_ = s.appCtx.RedisCache.InvalidateLikeCount(ctx, callerID, senderID)
	return &AcceptResult{MatchID: matchID}, nil
}

// Decline resolves a pending compliment without creating anything.
func (s *Service) Decline(ctx context.Context, callerID, senderID string) error {
	compliment, err := s.load(ctx, callerID, senderID)
	if err != nil {
		return err
	}

	ok, err := s.complimentRepo.Resolve(ctx, compliment.ID, db.ComplimentDeclined)
	if err != nil {
		return svcErr.Storage("decline compliment", err)
	}
	if !ok {
		return svcErr.InvalidTransition(svcErr.ReasonComplimentHandled)
	}
	return nil
}

func (s *Service) load(ctx context.Context, callerID, senderID string) (*db.Compliment, error) {
	compliment, err := s.complimentRepo.GetPair(ctx, senderID, callerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	}
	if err != nil {
		return nil, svcErr.Storage("load compliment", err)
	}
	if compliment.Status != db.ComplimentPending {
		return nil, svcErr.InvalidTransition(svcErr.ReasonComplimentHandled)
	}
	return compliment, nil
}
