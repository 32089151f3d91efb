package scheduler

import (
	"time"

	"github.com/makersmarket/makersmarket-backend/internal/app/service"
	"github.com/makersmarket/makersmarket-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CartCleanupScheduler periodically purges cart items that have not been
// touched for a configured duration. Abandoned carts otherwise accumulate
// rows forever.
type CartCleanupScheduler struct {
	cron        *cron.Cron
	cartService service.CartService
	staleAfter  time.Duration
	spec        string
}

func NewCartCleanupScheduler(cartService service.CartService, staleAfter time.Duration, spec string) *CartCleanupScheduler {
	return &CartCleanupScheduler{
		cron:        cron.New(),
		cartService: cartService,
		staleAfter:  staleAfter,
		spec:        spec,
	}
}

func (s *CartCleanupScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		logger.Info("Starting scheduled cart cleanup", map[string]interface{}{
			"stale_after": s.staleAfter.String(),
		})

		purged, err := s.cartService.PurgeStale(s.staleAfter)
		if err != nil {
			logger.Error("Failed to purge stale cart items", err, nil)
			return
		}

		logger.Info("Cart cleanup finished", map[string]interface{}{
			"purged": purged,
		})
	})
	if err != nil {
		logger.Error("Failed to register cart cleanup job", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Cart cleanup scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

func (s *CartCleanupScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Cart cleanup scheduler stopped", nil)
}
