package frameloop

import (
	"context"
	"time"
)

// TickerSource delivers frames at a fixed interval.
type TickerSource struct {
	ticker *time.Ticker
}

// NewTickerSource creates a source firing every interval.
func NewTickerSource(interval time.Duration) *TickerSource {
	return &TickerSource{ticker: time.NewTicker(interval)}
}

// NextFrame waits for the next tick.
func (s *TickerSource) NextFrame(ctx context.Context) (time.Time, error) {
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case now := <-s.ticker.C:
		return now, nil
	}
}

// Stop releases the underlying ticker.
func (s *TickerSource) Stop() {
	s.ticker.Stop()
}
