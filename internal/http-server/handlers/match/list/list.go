package list

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"go-bingohall/internal/config"
	"go-bingohall/internal/http-server/model"
	resp "go-bingohall/internal/lib/api/response"
	"go-bingohall/internal/lib/logger/sl"
	"go-bingohall/internal/repository"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Response struct {
	resp.Response
	Matches []model.Match `json:"matches"`
}

type GetResponse struct {
	resp.Response
	Match *model.Match `json:"match"`
}

// New handles GET /matches with optional status, limit and offset query params.
func New(log *slog.Logger, matchRep *repository.MatchRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.match.list.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		status := config.MatchStatus(r.URL.Query().Get("status"))

		limit := queryInt(r, "limit", defaultLimit)
		if limit < 1 || limit > maxLimit {
			limit = defaultLimit
		}

		offset := queryInt(r, "offset", 0)
		if offset < 0 {
			offset = 0
		}

		matches, err := matchRep.ListMatches(status, limit, offset)
		if err != nil {
			log.Error("failed to list matches", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to list matches", http.StatusInternalServerError))

			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Matches:  matches,
		})
	}
}

// NewGet handles GET /matches/{id}.
func NewGet(log *slog.Logger, matchRep *repository.MatchRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.match.list.NewGet"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		matchID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			log.Error("invalid match id", sl.Err(err))

			render.JSON(w, r, resp.Error("invalid match id", http.StatusBadRequest))

			return
		}

		match, err := matchRep.GetMatchByID(matchID)
		if err != nil {
			log.Error("failed to get match", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to get match", http.StatusInternalServerError))

			return
		}

		if match == nil {
			render.JSON(w, r, resp.Error("match not found", http.StatusNotFound))

			return
		}

		render.JSON(w, r, GetResponse{
			Response: resp.OK(),
			Match:    match,
		})
	}
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}

	return value
}
