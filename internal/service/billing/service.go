package billing

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kindlingapp/kindling/internal/app"
	svcErr "github.com/kindlingapp/kindling/internal/errors"
	"github.com/kindlingapp/kindling/internal/repository"
)

// Service applies subscription-webhook events. It is an external input to the
// boost balance, not part of the relationship engine proper: the in-app
// purchase provider calls in, we set premium status and credit boosts.
type Service struct {
	appCtx   *app.AppContext
	userRepo *repository.UserRepository
}

// NewService creates the billing service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		userRepo: repository.NewUserRepository(appCtx.DB),
	}
}

// Apply records one webhook event for a user.
func (s *Service) Apply(ctx context.Context, userID string, isPremium bool, boostGrant int) error {
	err := s.userRepo.ApplyBillingGrant(ctx, userID, isPremium, boostGrant)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.ErrNotFound
	}
	if err != nil {
		return svcErr.Storage("apply billing grant", err)
	}

	s.appCtx.Logger.Info("billing grant applied",
		"user", userID, "premium", isPremium, "boost_grant", boostGrant)
	return nil
}
