package claim

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"go-bingohall/internal/config"
	"go-bingohall/internal/http-server/handlers/event"
	"go-bingohall/internal/http-server/handlers/job"
	resp "go-bingohall/internal/lib/api/response"
	"go-bingohall/internal/lib/logger/sl"
	"go-bingohall/internal/repository"
)

var (
	ErrCardNotFound  = errors.New("card not found")
	ErrUnknownUser   = errors.New("unknown user")
	ErrNotCardOwner  = errors.New("card belongs to another user")
	ErrMatchNotLive  = errors.New("match is not live")
	ErrCardNotFull   = errors.New("card is not fully marked")
	ErrAlreadyWinner = errors.New("card already claimed bingo")
	ErrWinnerLimit   = errors.New("winner limit reached")
)

type Request struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

type Response struct {
	resp.Response
	BingoDrawIndex int `json:"bingo_draw_index"`
}

// Claimer settles bingo claims against the draw ledger.
type Claimer struct {
	log       *slog.Logger
	validator *validator.Validate
	matchRep  *repository.MatchRepository
	drawRep   *repository.DrawRepository
	cardRep   *repository.CardRepository
	userRep   *repository.UserRepository
	auditRep  *repository.AuditRepository
	event     event.Broadcaster
}

func NewClaimer(
	log *slog.Logger,
	matchRep *repository.MatchRepository,
	drawRep *repository.DrawRepository,
	cardRep *repository.CardRepository,
	userRep *repository.UserRepository,
	auditRep *repository.AuditRepository,
	eventClient event.Broadcaster) *Claimer {
	return &Claimer{
		log:       log,
		validator: validator.New(),
		matchRep:  matchRep,
		drawRep:   drawRep,
		cardRep:   cardRep,
		userRep:   userRep,
		auditRep:  auditRep,
		event:     eventClient,
	}
}

// Claim accepts a bingo claim when every number on the card has been marked.
// The winning draw index is the index of the last draw at claim time.
func (c *Claimer) Claim(cardID, userID uuid.UUID) (int, error) {
	const op = "handlers.cards.claim.Claim"

	user, err := c.userRep.GetUserByID(userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if user == nil {
		return 0, ErrUnknownUser
	}

	card, err := c.cardRep.GetCardByID(cardID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if card == nil {
		return 0, ErrCardNotFound
	}

	if card.UserID != userID {
		return 0, ErrNotCardOwner
	}

	if card.IsWinner {
		return 0, ErrAlreadyWinner
	}

	match, err := c.matchRep.GetMatchByID(card.MatchID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if match == nil || match.Status != config.Live {
		return 0, ErrMatchNotLive
	}

	if len(card.Marked) != len(card.Numbers) {
		return 0, ErrCardNotFull
	}

	if match.MaxWinners != nil {
		winners, winErr := c.cardRep.GetWinners(card.MatchID)
		if winErr != nil {
			return 0, fmt.Errorf("%s: %w", op, winErr)
		}

		if len(winners) >= *match.MaxWinners {
			return 0, ErrWinnerLimit
		}
	}

	lastDraw, err := c.drawRep.GetLastDraw(card.MatchID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if lastDraw == nil {
		return 0, ErrCardNotFull
	}

	if err = c.cardRep.MarkWinner(cardID, lastDraw.DrawIndex, time.Now()); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = c.auditRep.Log("bingo_claimed", &card.MatchID, &userID, map[string]interface{}{
		"card_id":    cardID.String(),
		"draw_index": lastDraw.DrawIndex,
	}); err != nil {
		c.log.Error("failed to write audit log", sl.Err(err))
	}

	job.Dispatch(&job.SendEventJob{
		EventMessage: event.Message{
			Channel: "match-" + card.MatchID.String(),
			Event:   "bingo",
			Data: map[string]interface{}{
				"user_id":    userID.String(),
				"card_id":    cardID.String(),
				"draw_index": lastDraw.DrawIndex,
			},
		},
		Event: c.event,
	}, 0)

	return lastDraw.DrawIndex, nil
}

// New handles POST /cards/{id}/claim.
func (c *Claimer) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.cards.claim.New"

		log := c.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		cardID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			log.Error("invalid card id", sl.Err(err))

			render.JSON(w, r, resp.Error("invalid card id", http.StatusBadRequest))

			return
		}

		var req Request

		if err = render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.JSON(w, r, resp.Error("empty request", http.StatusBadRequest))

				return
			}

			log.Error("failed to decode request body", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to decode request", http.StatusBadRequest))

			return
		}

		if err = c.validator.Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		userID, _ := uuid.Parse(req.UserID)

		drawIndex, err := c.Claim(cardID, userID)
		if err != nil {
			renderClaimError(w, r, log, err)

			return
		}

		log.Info("bingo claimed",
			sl.String("card_id", cardID.String()),
			slog.Int("draw_index", drawIndex))

		render.JSON(w, r, Response{
			Response:       resp.OK(),
			BingoDrawIndex: drawIndex,
		})
	}
}

func renderClaimError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, ErrCardNotFound):
		render.JSON(w, r, resp.Error("card not found", http.StatusNotFound))
	case errors.Is(err, ErrUnknownUser):
		render.JSON(w, r, resp.Error("unknown user", http.StatusNotFound))
	case errors.Is(err, ErrNotCardOwner):
		render.JSON(w, r, resp.Error("card belongs to another user", http.StatusForbidden))
	case errors.Is(err, ErrMatchNotLive):
		render.JSON(w, r, resp.Error("match is not live", http.StatusConflict))
	case errors.Is(err, ErrCardNotFull):
		render.JSON(w, r, resp.Error("card is not fully marked", http.StatusConflict))
	case errors.Is(err, ErrAlreadyWinner):
		render.JSON(w, r, resp.Error("card already claimed bingo", http.StatusConflict))
	case errors.Is(err, ErrWinnerLimit):
		render.JSON(w, r, resp.Error("winner limit reached", http.StatusConflict))
	default:
		log.Error("failed to claim bingo", sl.Err(err))

		render.JSON(w, r, resp.Error("failed to claim bingo", http.StatusInternalServerError))
	}
}
