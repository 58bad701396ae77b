package verify

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
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
	"go-bingohall/internal/lib/timeutil"
	"go-bingohall/internal/repository"
)

type RevealResponse struct {
	resp.Response
	CommitHash   string   `json:"commit_hash"`
	SeedMaterial []string `json:"seed_material"`
}

type RevealRequest struct {
	SeedMaterial []string `json:"seed_material" validate:"required,min=1"`
}

type VerifyResponse struct {
	resp.Response
	Valid bool `json:"valid"`
}

// Number carries no validator tag: matches may include zero in their range,
// and a wrong number simply fails verification.
type SignatureRequest struct {
	MatchID   string `json:"match_id" validate:"required,uuid"`
	DrawIndex int    `json:"draw_index" validate:"required,min=1"`
	Number    int    `json:"number"`
	Timestamp string `json:"timestamp" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

var requestValidator = validator.New()

// NewReveal handles GET /matches/{id}/reveal. Seed material stays sealed for
// anything but a finished match: handing it out earlier would let a caller
// precompute the rest of the sequence.
func NewReveal(log *slog.Logger, matchRep *repository.MatchRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.match.verify.NewReveal"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		match, ok := loadMatch(w, r, log, matchRep)
		if !ok {
			return
		}

		if match.Status != config.Finished {
			render.JSON(w, r, resp.Error("seed material is sealed until the match is finished", http.StatusConflict))

			return
		}

		render.JSON(w, r, RevealResponse{
			Response:     resp.OK(),
			CommitHash:   match.CommitHash,
			SeedMaterial: match.SeedMaterial,
		})
	}
}

// NewVerifyReveal handles POST /matches/{id}/verify-reveal: checks that the
// submitted seed material hashes back to the commitment published at create
// time.
func NewVerifyReveal(log *slog.Logger, matchRep *repository.MatchRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.match.verify.NewVerifyReveal"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		match, ok := loadMatch(w, r, log, matchRep)
		if !ok {
			return
		}

		var req RevealRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.JSON(w, r, resp.Error("empty request", http.StatusBadRequest))

				return
			}

			log.Error("failed to decode request body", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to decode request", http.StatusBadRequest))

			return
		}

		if err := requestValidator.Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		valid := fairdraw.VerifyReveal(req.SeedMaterial, match.CommitHash)

		log.Info("reveal verified",
			sl.String("match_id", match.ID.String()),
			slog.Bool("valid", valid))

		render.JSON(w, r, VerifyResponse{
			Response: resp.OK(),
			Valid:    valid,
		})
	}
}

// NewVerifySignature handles POST /draws/verify-signature.
func NewVerifySignature(log *slog.Logger, serverSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.match.verify.NewVerifySignature"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req SignatureRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.JSON(w, r, resp.Error("empty request", http.StatusBadRequest))

				return
			}

			log.Error("failed to decode request body", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to decode request", http.StatusBadRequest))

			return
		}

		if err := requestValidator.Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		timestamp, err := timeutil.ParseISO8601(req.Timestamp)
		if err != nil {
			render.JSON(w, r, resp.Error("timestamp must be an ISO-8601 UTC millisecond string", http.StatusBadRequest))

			return
		}

		valid := fairdraw.VerifySignature(
			req.MatchID,
			req.DrawIndex,
			req.Number,
			timestamp,
			req.Signature,
			serverSecret)

		log.Info("signature verified",
			sl.String("match_id", req.MatchID),
			slog.Int("draw_index", req.DrawIndex),
			slog.Bool("valid", valid))

		render.JSON(w, r, VerifyResponse{
			Response: resp.OK(),
			Valid:    valid,
		})
	}
}

func loadMatch(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
	matchRep *repository.MatchRepository) (*model.Match, bool) {
	matchID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid match id", sl.Err(err))

		render.JSON(w, r, resp.Error("invalid match id", http.StatusBadRequest))

		return nil, false
	}

	match, err := matchRep.GetMatchByID(matchID)
	if err != nil {
		log.Error("failed to get match", sl.Err(err))

		render.JSON(w, r, resp.Error("failed to get match", http.StatusInternalServerError))

		return nil, false
	}

	if match == nil {
		render.JSON(w, r, resp.Error("match not found", http.StatusNotFound))

		return nil, false
	}

	return match, true
}
