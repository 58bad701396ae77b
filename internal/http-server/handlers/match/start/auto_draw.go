package start

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"go-bingohall/internal/http-server/handlers/match/draw"
	"go-bingohall/internal/lib/logger/sl"
)

// AutoDraw runs one ticker goroutine per live match and pulls the next number
// on every tick. A run stops itself when the match leaves the live state, the
// number pool is exhausted, or a draw fails.
type AutoDraw struct {
	log     *slog.Logger
	drawSvc *draw.Draw

	mu    sync.Mutex
	stops map[uuid.UUID]chan struct{}
}

func NewAutoDraw(log *slog.Logger, drawSvc *draw.Draw) *AutoDraw {
	return &AutoDraw{
		log:     log,
		drawSvc: drawSvc,
		stops:   make(map[uuid.UUID]chan struct{}),
	}
}

// Start launches the runner for the match unless one is already running.
func (a *AutoDraw) Start(matchID uuid.UUID, interval time.Duration) {
	if interval <= 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, running := a.stops[matchID]; running {
		return
	}

	stop := make(chan struct{})
	a.stops[matchID] = stop

	go a.run(matchID, interval, stop)
}

// Stop halts the runner for the match if one is running.
func (a *AutoDraw) Stop(matchID uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if stop, running := a.stops[matchID]; running {
		close(stop)
		delete(a.stops, matchID)
	}
}

func (a *AutoDraw) run(matchID uuid.UUID, interval time.Duration, stop chan struct{}) {
	const op = "handlers.match.start.AutoDraw.run"

	log := a.log.With(
		slog.String("op", op),
		slog.String("match_id", matchID.String()),
	)

	log.Info("auto draw started", slog.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			log.Info("auto draw stopped")

			return
		case <-ticker.C:
			// Draws triggered by the runner carry the zero user id.
			result, exhausted, err := a.drawSvc.DrawNext(matchID, uuid.Nil)
			if err != nil {
				if errors.Is(err, draw.ErrMatchNotLive) || errors.Is(err, draw.ErrMatchNotFound) {
					log.Info("auto draw finished", sl.String("reason", "match no longer live"))
				} else {
					log.Error("auto draw failed", sl.Err(err))
				}

				a.Stop(matchID)

				return
			}

			if result != nil {
				log.Info("auto draw tick",
					slog.Int("draw_index", result.DrawIndex),
					slog.Int("number", result.Number),
				)
			}

			if exhausted {
				log.Info("auto draw finished", sl.String("reason", "number pool exhausted"))

				a.Stop(matchID)

				return
			}
		}
	}
}
