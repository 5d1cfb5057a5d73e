package views

import (
	"context"
	"time"

	"github.com/kindlingapp/kindling/internal/app"
	svcErr "github.com/kindlingapp/kindling/internal/errors"
	"github.com/kindlingapp/kindling/internal/repository"
)

// Service serves the derived, relationship-filtered read models backing the
// likes, viewers, and chat screens. All filtering happens in the repository
// queries; this layer shapes results and runs the counter cache.
type Service struct {
	appCtx      *app.AppContext
	viewRepo    *repository.ViewRepository
	matchRepo   *repository.MatchRepository
	unmatchRepo *repository.UnmatchRepository
	blockRepo   *repository.BlockRepository
	messageRepo *repository.MessageRepository
}

// NewService creates the views service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		viewRepo:    repository.NewViewRepository(appCtx.DB),
		matchRepo:   repository.NewMatchRepository(appCtx.DB),
		unmatchRepo: repository.NewUnmatchRepository(appCtx.DB),
		blockRepo:   repository.NewBlockRepository(appCtx.DB),
		messageRepo: repository.NewMessageRepository(appCtx.DB),
	}
}

// LikeEntry is one row of the likes-received / likes-sent screens.
type LikeEntry struct {
	UserID  string    `json:"user_id"`
	Action  string    `json:"action"`
	LikedAt time.Time `json:"liked_at"`
}

// LikesPage is a cursor-paginated slice of like entries.
type LikesPage struct {
	Likes               []LikeEntry `json:"likes"`
	NextPaginationToken *string     `json:"next_pagination_token,omitempty"`
}

// LikesReceived lists who liked the caller, most recent first.
func (s *Service) LikesReceived(ctx context.Context, userID string, token *string, limit int) (*LikesPage, error) {
	swipes, next, err := s.viewRepo.LikesReceived(ctx, userID, token, limit)
	if err != nil {
		return nil, svcErr.Storage("likes received", err)
	}
	page := &LikesPage{NextPaginationToken: next}
	for _, sw := range swipes {
		page.Likes = append(page.Likes, LikeEntry{
			UserID:  sw.SwiperID,
			Action:  sw.Action,
			LikedAt: sw.CreatedAt,
		})
	}
	return page, nil
}

// LikesSent lists who the caller liked, most recent first.
func (s *Service) LikesSent(ctx context.Context, userID string, token *string, limit int) (*LikesPage, error) {
	swipes, next, err := s.viewRepo.LikesSent(ctx, userID, token, limit)
	if err != nil {
		return nil, svcErr.Storage("likes sent", err)
	}
	page := &LikesPage{NextPaginationToken: next}
	for _, sw := range swipes {
		page.Likes = append(page.Likes, LikeEntry{
			UserID:  sw.SwipedID,
			Action:  sw.Action,
			LikedAt: sw.CreatedAt,
		})
	}
	return page, nil
}

// CountLikesReceived returns the caller's likes-received count.
// Cache-first strategy:
//  1. Attempts to read from Redis (likes:count:userID).
//  2. On cache miss, falls back to the DB count with exclusions applied.
//  3. On DB fetch, updates Redis with the standard TTL.
func (s *Service) CountLikesReceived(ctx context.Context, userID string) (int64, error) {
	if n, ok, _ := s.appCtx.RedisCache.GetLikeCount(ctx, userID); ok {
		return n, nil
	}

	count, err := s.viewRepo.CountLikesReceived(ctx, userID)
	if err != nil {
		return 0, svcErr.Storage("count likes", err)
	}
	_ = s.appCtx.RedisCache.SetLikeCount(ctx, userID, count)
	return count, nil
}

// ViewerEntry is one grouped row of the viewers screen.
type ViewerEntry struct {
	UserID       string    `json:"user_id"`
	ViewCount    int64     `json:"view_count"`
	LastViewedAt time.Time `json:"last_viewed_at"`
}

// Viewers lists who viewed the caller's profile, grouped by viewer. Only
// block exclusions apply here.
func (s *Service) Viewers(ctx context.Context, userID string) ([]ViewerEntry, error) {
	rows, err := s.viewRepo.Viewers(ctx, userID)
	if err != nil {
		return nil, svcErr.Storage("viewers", err)
	}
	entries := make([]ViewerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, ViewerEntry{
			UserID:       row.ViewerID,
			ViewCount:    row.ViewCount,
			LastViewedAt: row.CreatedAt,
		})
	}
	return entries, nil
}

// RecordView appends a profile-view event.
func (s *Service) RecordView(ctx context.Context, viewerID, viewedID string) error {
	if viewerID == viewedID {
		return svcErr.InvalidTransition(svcErr.ReasonSelfAction)
	}
	if err := s.viewRepo.RecordView(ctx, viewerID, viewedID); err != nil {
		return svcErr.Storage("record view", err)
	}
	return nil
}

// ChatEntry is one item of the chat list: a live match, or a synthetic entry
// for a pending rematch request awaiting the caller's answer.
type ChatEntry struct {
	MatchID        string     `json:"match_id"`
	OtherUserID    string     `json:"other_user_id"`
	RematchPending bool       `json:"rematch_pending,omitempty"`
	LastMessage    string     `json:"last_message,omitempty"`
	LastMessageAt  *time.Time `json:"last_message_at,omitempty"`
	UnreadCount    int64      `json:"unread_count"`
}

// ChatList returns the caller's current matches with last-message and
// unread-count, plus a synthetic entry per pending rematch where the caller
// is the counterpart: actionable even though no Match row exists yet.
// Pending entries come first; their match id is the dissolved match's, which
// the retained messages still reference.
func (s *Service) ChatList(ctx context.Context, userID string) ([]ChatEntry, error) {
	blocked, err := s.blockedSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	var entries []ChatEntry

	pendings, err := s.unmatchRepo.ListPendingFor(ctx, userID)
	if err != nil {
		return nil, svcErr.Storage("pending rematches", err)
	}
	for _, um := range pendings {
		other := counterpart(um.User1ID, um.User2ID, userID)
		if blocked[other] {
			continue
		}
		entry, err := s.chatEntry(ctx, um.MatchID, other, userID)
		if err != nil {
			return nil, err
		}
		entry.RematchPending = true
		entries = append(entries, entry)
	}

	matches, err := s.matchRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, svcErr.Storage("list matches", err)
	}
	for _, m := range matches {
		other := counterpart(m.User1ID, m.User2ID, userID)
		if blocked[other] {
			continue
		}
		entry, err := s.chatEntry(ctx, m.ID, other, userID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (s *Service) chatEntry(ctx context.Context, matchID, otherID, userID string) (ChatEntry, error) {
	entry := ChatEntry{MatchID: matchID, OtherUserID: otherID}

	last, err := s.messageRepo.Last(ctx, matchID)
	if err != nil {
		return entry, svcErr.Storage("last message", err)
	}
	if last != nil {
		entry.LastMessage = last.Content
		entry.LastMessageAt = &last.CreatedAt
	}

	unread, err := s.messageRepo.CountUnread(ctx, matchID, userID)
	if err != nil {
		return entry, svcErr.Storage("unread count", err)
	}
	entry.UnreadCount = unread
	return entry, nil
}

func (s *Service) blockedSet(ctx context.Context, userID string) (map[string]bool, error) {
	blocks, err := s.blockRepo.ListInvolving(ctx, userID)
	if err != nil {
		return nil, svcErr.Storage("list blocks", err)
	}
	set := make(map[string]bool, len(blocks))
	for _, b := range blocks {
		set[b.BlockerID] = true
		set[b.BlockedID] = true
	}
	delete(set, userID)
	return set, nil
}

func counterpart(u1, u2, me string) string {
	if u1 == me {
		return u2
	}
	return u1
}
