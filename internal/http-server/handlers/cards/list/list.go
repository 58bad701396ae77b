package list

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

type Response struct {
	resp.Response
	Cards []model.Card `json:"cards"`
}

// New handles GET /matches/{id}/cards?user=<uuid>.
func New(log *slog.Logger, cardRep *repository.CardRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.cards.list.New"

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

		userID, err := uuid.Parse(r.URL.Query().Get("user"))
		if err != nil {
			log.Error("invalid user id", sl.Err(err))

			render.JSON(w, r, resp.Error("invalid user id", http.StatusBadRequest))

			return
		}

		cards, err := cardRep.GetUserCards(matchID, userID)
		if err != nil {
			log.Error("failed to list cards", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to list cards", http.StatusInternalServerError))

			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Cards:    cards,
		})
	}
}
