package status

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
	"go-bingohall/internal/http-server/handlers/event"
	"go-bingohall/internal/http-server/handlers/job"
	"go-bingohall/internal/http-server/handlers/match/start"
	"go-bingohall/internal/http-server/model"
	resp "go-bingohall/internal/lib/api/response"
	"go-bingohall/internal/lib/logger/sl"
	"go-bingohall/internal/lib/timeutil"
	"go-bingohall/internal/repository"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrBadTransition = errors.New("transition not allowed from current status")
)

type Response struct {
	resp.Response
	Status string `json:"status"`
}

// Changer drives the match lifecycle after creation: live, paused, finished.
type Changer struct {
	log      *slog.Logger
	matchRep *repository.MatchRepository
	auditRep *repository.AuditRepository
	registry *fairdraw.Registry
	event    event.Broadcaster
	autoDraw *start.AutoDraw
}

func NewChanger(
	log *slog.Logger,
	matchRep *repository.MatchRepository,
	auditRep *repository.AuditRepository,
	registry *fairdraw.Registry,
	eventClient event.Broadcaster,
	autoDraw *start.AutoDraw) *Changer {
	return &Changer{
		log:      log,
		matchRep: matchRep,
		auditRep: auditRep,
		registry: registry,
		event:    eventClient,
		autoDraw: autoDraw,
	}
}

func (c *Changer) Pause(matchID, userID uuid.UUID) error {
	const op = "handlers.match.status.Pause"

	match, err := c.transition(matchID, config.Paused, config.Live)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// The runner is halted while paused; the sequence itself keeps its
	// position in the registry.
	c.autoDraw.Stop(matchID)

	c.logEvent(matchID, userID, "match_paused", match.Status)
	c.broadcast(matchID, "match:paused", nil)

	return nil
}

func (c *Changer) Resume(matchID, userID uuid.UUID) error {
	const op = "handlers.match.status.Resume"

	match, err := c.transition(matchID, config.Live, config.Paused)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if match.AutoDraw {
		c.autoDraw.Start(matchID, match.AutoDrawInterval)
	}

	c.logEvent(matchID, userID, "match_resumed", match.Status)
	c.broadcast(matchID, "match:resumed", nil)

	return nil
}

// Finish closes a match and unseals its commitment: from here on the reveal
// endpoint serves the seed material.
func (c *Changer) Finish(matchID, userID uuid.UUID) error {
	const op = "handlers.match.status.Finish"

	match, err := c.load(matchID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if match.Status != config.Live && match.Status != config.Paused {
		return fmt.Errorf("%s: %w", op, ErrBadTransition)
	}

	endedAt := time.Now()
	if err = c.matchRep.MarkMatchFinished(matchID, endedAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.autoDraw.Stop(matchID)
	c.registry.Drop(matchID.String())

	c.logEvent(matchID, userID, "match_finished", match.Status)
	c.broadcast(matchID, "match:finished", map[string]interface{}{
		"ended_at": timeutil.ISO8601(endedAt),
	})

	return nil
}

func (c *Changer) load(matchID uuid.UUID) (*model.Match, error) {
	match, err := c.matchRep.GetMatchByID(matchID)
	if err != nil {
		return nil, err
	}

	if match == nil {
		return nil, ErrMatchNotFound
	}

	return match, nil
}

func (c *Changer) transition(matchID uuid.UUID, to, from config.MatchStatus) (*model.Match, error) {
	match, err := c.load(matchID)
	if err != nil {
		return nil, err
	}

	if match.Status != from {
		return nil, ErrBadTransition
	}

	if err = c.matchRep.UpdateMatchStatus(matchID, to); err != nil {
		return nil, err
	}

	return match, nil
}

func (c *Changer) logEvent(matchID, userID uuid.UUID, eventType string, prev config.MatchStatus) {
	if err := c.auditRep.Log(eventType, &matchID, &userID, map[string]interface{}{
		"previous_status": string(prev),
	}); err != nil {
		c.log.Error("failed to write audit log", sl.Err(err))
	}
}

func (c *Changer) broadcast(matchID uuid.UUID, eventName string, data map[string]interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}

	data["match_id"] = matchID.String()

	job.Dispatch(&job.SendEventJob{
		EventMessage: event.Message{
			Channel: "match-" + matchID.String(),
			Event:   eventName,
			Data:    data,
		},
		Event: c.event,
	}, 0)
}

// NewPause handles POST /matches/{id}/pause.
func (c *Changer) NewPause() http.HandlerFunc {
	return c.handler("handlers.match.status.NewPause", "paused", c.Pause)
}

// NewResume handles POST /matches/{id}/resume.
func (c *Changer) NewResume() http.HandlerFunc {
	return c.handler("handlers.match.status.NewResume", "live", c.Resume)
}

// NewFinish handles POST /matches/{id}/finish.
func (c *Changer) NewFinish() http.HandlerFunc {
	return c.handler("handlers.match.status.NewFinish", "finished", c.Finish)
}

func (c *Changer) handler(op, newStatus string, change func(matchID, userID uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := c.log.With(
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

		_ = render.DecodeJSON(r.Body, &req)

		userID, _ := uuid.Parse(req.UserID)

		if err = change(matchID, userID); err != nil {
			switch {
			case errors.Is(err, ErrMatchNotFound):
				render.JSON(w, r, resp.Error("match not found", http.StatusNotFound))
			case errors.Is(err, ErrBadTransition):
				render.JSON(w, r, resp.Error("transition not allowed from current status", http.StatusConflict))
			default:
				log.Error("failed to change match status", sl.Err(err))

				render.JSON(w, r, resp.Error("failed to change match status", http.StatusInternalServerError))
			}

			return
		}

		log.Info("match status changed",
			sl.String("match_id", matchID.String()),
			sl.String("status", newStatus))

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Status:   newStatus,
		})
	}
}
