package store

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// RunSweeper evicts idle games every interval until ctx is cancelled.
func RunSweeper(ctx context.Context, st Store, every, idle time.Duration) {
	if every <= 0 || idle <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := st.Sweep(ctx, idle, now); n > 0 {
				log.Info().Int("evicted", n).Int("live", st.Len()).Msg("swept idle games")
			}
		}
	}
}
