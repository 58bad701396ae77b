package start

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"go-bingohall/internal/config"
	"go-bingohall/internal/fairdraw"
	"go-bingohall/internal/http-server/handlers/cards/generate"
	"go-bingohall/internal/http-server/handlers/event"
	"go-bingohall/internal/http-server/handlers/job"
	resp "go-bingohall/internal/lib/api/response"
	"go-bingohall/internal/lib/logger/sl"
	"go-bingohall/internal/lib/timeutil"
	"go-bingohall/internal/repository"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrNotScheduled  = errors.New("match is not scheduled")
)

type Response struct {
	resp.Response
	StartedAt  string `json:"started_at"`
	TotalCards int    `json:"total_cards"`
}

type Starter struct {
	log      *slog.Logger
	matchRep *repository.MatchRepository
	cardRep  *repository.CardRepository
	auditRep *repository.AuditRepository
	dealer   *generate.Dealer
	registry *fairdraw.Registry
	event    event.Broadcaster
	autoDraw *AutoDraw
}

func NewStarter(
	log *slog.Logger,
	matchRep *repository.MatchRepository,
	cardRep *repository.CardRepository,
	auditRep *repository.AuditRepository,
	dealer *generate.Dealer,
	registry *fairdraw.Registry,
	eventClient event.Broadcaster,
	autoDraw *AutoDraw) *Starter {
	return &Starter{
		log:      log,
		matchRep: matchRep,
		cardRep:  cardRep,
		auditRep: auditRep,
		dealer:   dealer,
		registry: registry,
		event:    eventClient,
		autoDraw: autoDraw,
	}
}

// Start moves a scheduled match to live: deals cards to active participants
// if none exist yet, primes the in-memory draw sequence from the committed
// seed and kicks off the auto draw runner when the match asks for one.
func (s *Starter) Start(matchID, userID uuid.UUID) (time.Time, int, error) {
	const op = "handlers.match.start.Start"

	match, err := s.matchRep.GetMatchByID(matchID)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%s: %w", op, err)
	}

	if match == nil {
		return time.Time{}, 0, ErrMatchNotFound
	}

	if match.Status != config.Scheduled {
		return time.Time{}, 0, ErrNotScheduled
	}

	totalCards, err := s.cardRep.CountCards(matchID)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%s: %w", op, err)
	}

	if totalCards == 0 {
		totalCards, err = s.dealer.DealForMatch(matchID)
		if err != nil {
			return time.Time{}, 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	drawer := fairdraw.NewNumberDrawer(match.NumMin, match.NumMax, match.SeedMaterial[0])
	s.registry.Set(matchID.String(), drawer)

	startedAt := time.Now()
	if err = s.matchRep.MarkMatchStarted(matchID, startedAt); err != nil {
		s.registry.Drop(matchID.String())

		return time.Time{}, 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = s.auditRep.Log("match_started", &matchID, &userID, map[string]interface{}{
		"total_cards": totalCards,
	}); err != nil {
		s.log.Error("failed to write audit log", sl.Err(err))
	}

	job.Dispatch(&job.SendEventJob{
		EventMessage: event.Message{
			Channel: "match-" + matchID.String(),
			Event:   "match:started",
			Data: map[string]interface{}{
				"match_id":   matchID.String(),
				"started_at": timeutil.ISO8601(startedAt),
			},
		},
		Event: s.event,
	}, 0)

	if match.AutoDraw {
		s.autoDraw.Start(matchID, match.AutoDrawInterval)
	}

	return startedAt, totalCards, nil
}

// New handles POST /matches/{id}/start.
func (s *Starter) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.match.start.New"

		log := s.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		matchID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			log.Error("invalid match id", sl.Err(err))

			render.JSON(w, r, resp.Error("invalid match id", http.StatusBadRequest))

			return
		}

		var req struct {
			UserID string `json:"user_id"`
		}

		// The caller id is optional; draws triggered later by the runner
		// also run without one.
		_ = render.DecodeJSON(r.Body, &req)

		userID, _ := uuid.Parse(req.UserID)

		startedAt, totalCards, err := s.Start(matchID, userID)
		if err != nil {
			switch {
			case errors.Is(err, ErrMatchNotFound):
				render.JSON(w, r, resp.Error("match not found", http.StatusNotFound))
			case errors.Is(err, ErrNotScheduled):
				render.JSON(w, r, resp.Error("match is not scheduled", http.StatusConflict))
			default:
				log.Error("failed to start match", sl.Err(err))

				render.JSON(w, r, resp.Error("failed to start match", http.StatusInternalServerError))
			}

			return
		}

		log.Info("match started",
			sl.String("match_id", matchID.String()),
			slog.Int("total_cards", totalCards))

		render.JSON(w, r, Response{
			Response:   resp.OK(),
			StartedAt:  timeutil.ISO8601(startedAt),
			TotalCards: totalCards,
		})
	}
}
