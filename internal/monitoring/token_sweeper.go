package monitoring

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// TokenStore is the slice of the user service the sweeper needs.
type TokenStore interface {
	ClearExpiredTokens() (int64, error)
}

// TokenSweeper periodically clears expired verification/reset OTPs so a stale
// code can never be replayed, even if no request ever touches the row again.
type TokenSweeper struct {
	store TokenStore
	cron  *cron.Cron
}

// NewTokenSweeper creates a new sweeper over the given store.
func NewTokenSweeper(store TokenStore) *TokenSweeper {
	return &TokenSweeper{store: store, cron: cron.New()}
}

// Run starts the sweep schedule.
func (ts *TokenSweeper) Run() {
	log.Info().Msg("Starting background token sweeper...")
	_, err := ts.cron.AddFunc("@every 1m", ts.sweep)
	if err != nil {
		log.Error().Err(err).Msg("Failed to schedule token sweep")
		return
	}
	ts.cron.Start()
}

// Stop halts the sweep schedule.
func (ts *TokenSweeper) Stop() {
	log.Info().Msg("Stopping background token sweeper.")
	ts.cron.Stop()
}

func (ts *TokenSweeper) sweep() {
	cleared, err := ts.store.ClearExpiredTokens()
	if err != nil {
		log.Error().Err(err).Msg("Token sweep failed")
		return
	}
	if cleared > 0 {
		log.Info().Int64("cleared", cleared).Msg("Cleared expired tokens")
	}
}
