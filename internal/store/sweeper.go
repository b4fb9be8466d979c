package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper periodically deletes expired token records. Deletion is lazy:
// readers must still check expires_at themselves, the sweep only reclaims
// rows whose expiry has already passed.
type Sweeper struct {
	tokens   TokenStore
	interval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSweeper creates a sweeper over the given token store.
func NewSweeper(tokens TokenStore, interval time.Duration) *Sweeper {
	return &Sweeper{tokens: tokens, interval: interval}
}

// Start begins the background sweep loop. It sweeps once immediately and
// then on every interval tick. Non-blocking.
func (s *Sweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.sweep(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop terminates the sweep loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
}

func (s *Sweeper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	deleted, err := s.tokens.DeleteExpiredTokens(sweepCtx)
	if err != nil {
		log.Error().Err(err).Msg("token sweep failed")
		return
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Msg("swept expired tokens")
	}
}
