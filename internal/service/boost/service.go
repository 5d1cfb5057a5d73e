package boost

import (
	"context"
	"errors"
	"time"

	"github.com/kindlingapp/kindling/internal/app"
	"github.com/kindlingapp/kindling/internal/db"
	svcErr "github.com/kindlingapp/kindling/internal/errors"
	"github.com/kindlingapp/kindling/internal/repository"
)

// Service allocates profile boosts from the user's balance.
type Service struct {
	appCtx    *app.AppContext
	boostRepo *repository.BoostRepository
}

// NewService creates the boost service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		boostRepo: repository.NewBoostRepository(appCtx.DB),
	}
}

// Result is the activation outcome. Created is false only on the losing side
// of a concurrent double-activation, where the winner's boost is returned
// instead of a fresh one.
type Result struct {
	Boost   *db.ProfileBoost `json:"boost"`
	Created bool             `json:"created"`
}

// Activate grants a boost for the requested duration. The repository makes
// the balance decrement and the single-active check one atomic step, so a
// losing concurrent call never burns balance; it observes the winner's boost
// and reports it with Created=false.
func (s *Service) Activate(ctx context.Context, userID string, minutes int) (*Result, error) {
	b, created, err := s.boostRepo.Activate(ctx, userID, time.Duration(minutes)*time.Minute)
	if errors.Is(err, repository.ErrNoBoostBalance) {
		return nil, svcErr.InvalidTransition(svcErr.ReasonNoBoostBalance)
	}
	if err != nil {
		return nil, svcErr.Storage("activate boost", err)
	}

	if created {
		s.appCtx.Logger.Info("boost activated",
			"user", userID, "boost_id", b.ID, "expires_at", b.ExpiresAt)
	}
	return &Result{Boost: b, Created: created}, nil
}
