package create

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"go-bingohall/internal/config"
	"go-bingohall/internal/fairdraw"
	"go-bingohall/internal/http-server/model"
	resp "go-bingohall/internal/lib/api/response"
	"go-bingohall/internal/lib/logger/sl"
	"go-bingohall/internal/repository"
)

type Request struct {
	Name               string `json:"name" validate:"required"`
	NumMin             int    `json:"num_min" validate:"min=0"`
	NumMax             int    `json:"num_max" validate:"required"`
	NumbersPerCard     int    `json:"numbers_per_card" validate:"required,min=1"`
	AutoDraw           bool   `json:"auto_draw"`
	AutoDrawIntervalMs int64  `json:"auto_draw_interval_ms" validate:"omitempty,min=1000"`
	MaxWinners         *int   `json:"max_winners" validate:"omitempty,min=1"`
	CreatedBy          string `json:"created_by" validate:"required,uuid"`
}

type Response struct {
	resp.Response
	MatchID    string `json:"match_id,omitempty"`
	CommitHash string `json:"commit_hash,omitempty"`
}

type Create struct {
	log       *slog.Logger
	validator *validator.Validate
	matchRep  *repository.MatchRepository
	auditRep  *repository.AuditRepository
	drawCfg   config.Draw
}

func NewCreate(
	log *slog.Logger,
	matchRep *repository.MatchRepository,
	auditRep *repository.AuditRepository,
	drawCfg config.Draw) *Create {
	return &Create{
		log:       log,
		validator: validator.New(),
		matchRep:  matchRep,
		auditRep:  auditRep,
		drawCfg:   drawCfg,
	}
}

func (c *Create) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.match.create.New"

		var (
			err error
			req Request
			log *slog.Logger
		)

		log = c.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if err = render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to decode request body", http.StatusBadRequest))

			return
		}

		log.Info("request body decoded", slog.Any("request", req))

		if err = c.validator.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("invalid request", sl.Err(err))

			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		matchCfg := fairdraw.MatchConfig{
			NumMin:         req.NumMin,
			NumMax:         req.NumMax,
			NumbersPerCard: req.NumbersPerCard,
		}

		if err = matchCfg.Validate(); err != nil {
			log.Error("invalid match configuration", sl.Err(err))

			render.JSON(w, r, resp.Error(configErrorMessage(err), http.StatusBadRequest))

			return
		}

		// Seed generation must complete before any card or draw work; an
		// entropy failure aborts the whole creation.
		seeds, commitHash, err := fairdraw.GenerateSeedMaterial(c.drawCfg.SeedPoolSize)
		if err != nil {
			log.Error("failed to generate seed material", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to generate seed material", http.StatusInternalServerError))

			return
		}

		interval := time.Duration(req.AutoDrawIntervalMs) * time.Millisecond
		if interval <= 0 {
			interval = c.drawCfg.AutoDrawInterval
		}

		match := model.Match{
			ID:               uuid.New(),
			Name:             req.Name,
			Status:           config.Scheduled,
			NumMin:           req.NumMin,
			NumMax:           req.NumMax,
			NumbersPerCard:   req.NumbersPerCard,
			CommitHash:       commitHash,
			SeedMaterial:     seeds,
			AutoDraw:         req.AutoDraw,
			AutoDrawInterval: interval,
			MaxWinners:       req.MaxWinners,
			CreatedBy:        uuid.MustParse(req.CreatedBy),
		}

		if err = c.matchRep.SaveMatch(match); err != nil {
			log.Error("failed to save match", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to save match", http.StatusInternalServerError))

			return
		}

		log.Info("match created",
			sl.String("match_id", match.ID.String()),
			sl.String("commit_hash", commitHash))

		if err = c.auditRep.Log("match_created", &match.ID, &match.CreatedBy, map[string]interface{}{
			"name":             match.Name,
			"num_min":          match.NumMin,
			"num_max":          match.NumMax,
			"numbers_per_card": match.NumbersPerCard,
			"commit_hash":      commitHash,
		}); err != nil {
			log.Error("failed to write audit log", sl.Err(err))
		}

		render.JSON(w, r, Response{
			Response:   resp.OK(),
			MatchID:    match.ID.String(),
			CommitHash: commitHash,
		})
	}
}

func configErrorMessage(err error) string {
	switch {
	case errors.Is(err, fairdraw.ErrRangeOrder):
		return "num_max must be greater than num_min"
	case errors.Is(err, fairdraw.ErrCardTooLarge):
		return "numbers_per_card cannot exceed the available range"
	default:
		return "invalid match configuration"
	}
}
