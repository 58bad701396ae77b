package draw

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	resp "go-bingohall/internal/lib/api/response"
	"go-bingohall/internal/lib/logger/sl"
)

type Request struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// Number carries no validator tag: zero is a legal draw when the match range
// starts at zero, and DrawManual checks the range against the match itself.
type ManualRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Number int    `json:"number"`
}

type Response struct {
	resp.Response
	Draw     *Result `json:"draw,omitempty"`
	GameOver bool    `json:"game_over"`
}

var requestValidator = validator.New()

// New handles POST /matches/{id}/draws.
func (d *Draw) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.match.draw.New"

		log := d.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		matchID, userID, ok := decodeDrawRequest(w, r, log)
		if !ok {
			return
		}

		result, gameOver, err := d.DrawNext(matchID, userID)
		if err != nil {
			renderDrawError(w, r, log, err)

			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Draw:     result,
			GameOver: gameOver,
		})
	}
}

// NewManual handles POST /matches/{id}/draws/manual.
func (d *Draw) NewManual() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.match.draw.NewManual"

		log := d.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		matchID, ok := matchIDFromURL(w, r, log)
		if !ok {
			return
		}

		var req ManualRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to decode request body", http.StatusBadRequest))

			return
		}

		if err := requestValidator.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("invalid request", sl.Err(err))

			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		result, gameOver, err := d.DrawManual(matchID, uuid.MustParse(req.UserID), req.Number)
		if err != nil {
			renderDrawError(w, r, log, err)

			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Draw:     result,
			GameOver: gameOver,
		})
	}
}

// NewUndo handles DELETE /matches/{id}/draws/last.
func (d *Draw) NewUndo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.match.draw.NewUndo"

		log := d.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		matchID, userID, ok := decodeDrawRequest(w, r, log)
		if !ok {
			return
		}

		undone, err := d.Undo(matchID, userID)
		if err != nil {
			renderDrawError(w, r, log, err)

			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Draw: &Result{
				DrawIndex: undone.DrawIndex,
				Number:    undone.Number,
				Signature: undone.Signature,
				CreatedAt: undone.CreatedAt,
			},
		})
	}
}

func decodeDrawRequest(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, uuid.UUID, bool) {
	matchID, ok := matchIDFromURL(w, r, log)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	var req Request

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))

		render.JSON(w, r, resp.Error("failed to decode request body", http.StatusBadRequest))

		return uuid.Nil, uuid.Nil, false
	}

	if err := requestValidator.Struct(req); err != nil {
		validateErr := err.(validator.ValidationErrors)

		log.Error("invalid request", sl.Err(err))

		render.JSON(w, r, resp.ValidationError(validateErr))

		return uuid.Nil, uuid.Nil, false
	}

	return matchID, uuid.MustParse(req.UserID), true
}

func matchIDFromURL(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	matchID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid match id", sl.Err(err))

		render.JSON(w, r, resp.Error("invalid match id", http.StatusBadRequest))

		return uuid.Nil, false
	}

	return matchID, true
}

func renderDrawError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, ErrMatchNotFound):
		render.JSON(w, r, resp.Error("match not found", http.StatusNotFound))
	case errors.Is(err, ErrMatchNotLive):
		render.JSON(w, r, resp.Error("match is not live", http.StatusConflict))
	case errors.Is(err, ErrNoDraws):
		render.JSON(w, r, resp.Error("no numbers drawn yet", http.StatusBadRequest))
	case errors.Is(err, ErrOutOfRange):
		render.JSON(w, r, resp.Error("number is outside the match range", http.StatusBadRequest))
	case errors.Is(err, ErrAlreadyDrawn):
		render.JSON(w, r, resp.Error("number was already drawn", http.StatusConflict))
	default:
		log.Error("draw operation failed", sl.Err(err))

		render.JSON(w, r, resp.Error("draw operation failed", http.StatusInternalServerError))
	}
}
