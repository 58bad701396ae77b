package state

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"go-bingohall/internal/http-server/model"
	resp "go-bingohall/internal/lib/api/response"
	"go-bingohall/internal/lib/logger/sl"
	"go-bingohall/internal/repository"
)

type Winner struct {
	UserID         string `json:"user_id"`
	CardID         string `json:"card_id"`
	BingoDrawIndex int    `json:"bingo_draw_index"`
}

type Response struct {
	resp.Response
	Match      *model.Match     `json:"match"`
	Draws      []model.Draw     `json:"draws"`
	Winners    []Winner         `json:"winners"`
	Events     []model.EventLog `json:"events"`
	TotalCards int              `json:"total_cards"`
	Remaining  int              `json:"remaining_numbers"`
}

const eventFeedLimit = 50

// New handles GET /matches/{id}/state: one snapshot of everything a board
// client needs to render the match.
func New(
	log *slog.Logger,
	matchRep *repository.MatchRepository,
	drawRep *repository.DrawRepository,
	cardRep *repository.CardRepository,
	auditRep *repository.AuditRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.match.state.New"

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

		draws, err := drawRep.ListDraws(matchID)
		if err != nil {
			log.Error("failed to list draws", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to load match state", http.StatusInternalServerError))

			return
		}

		winnerCards, err := cardRep.GetWinners(matchID)
		if err != nil {
			log.Error("failed to list winners", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to load match state", http.StatusInternalServerError))

			return
		}

		events, err := auditRep.ListEvents(matchID, eventFeedLimit)
		if err != nil {
			log.Error("failed to list events", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to load match state", http.StatusInternalServerError))

			return
		}

		totalCards, err := cardRep.CountCards(matchID)
		if err != nil {
			log.Error("failed to count cards", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to load match state", http.StatusInternalServerError))

			return
		}

		winners := make([]Winner, 0, len(winnerCards))

		for _, card := range winnerCards {
			winner := Winner{
				UserID: card.UserID.String(),
				CardID: card.ID.String(),
			}

			if card.BingoDrawIndex != nil {
				winner.BingoDrawIndex = *card.BingoDrawIndex
			}

			winners = append(winners, winner)
		}

		render.JSON(w, r, Response{
			Response:   resp.OK(),
			Match:      match,
			Draws:      draws,
			Winners:    winners,
			Events:     events,
			TotalCards: totalCards,
			Remaining:  match.NumMax - match.NumMin + 1 - len(draws),
		})
	}
}
