package generate

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"go-bingohall/internal/fairdraw"
	"go-bingohall/internal/http-server/model"
	resp "go-bingohall/internal/lib/api/response"
	"go-bingohall/internal/lib/logger/sl"
	"go-bingohall/internal/repository"
)

var ErrMatchNotFound = errors.New("match not found")

type Response struct {
	resp.Response
	TotalCards int `json:"total_cards"`
}

type Dealer struct {
	log         *slog.Logger
	matchRep    *repository.MatchRepository
	cardRep     *repository.CardRepository
	userRep     *repository.UserRepository
	auditRep    *repository.AuditRepository
	transaction *repository.Transaction
}

func NewDealer(
	log *slog.Logger,
	matchRep *repository.MatchRepository,
	cardRep *repository.CardRepository,
	userRep *repository.UserRepository,
	auditRep *repository.AuditRepository,
	transaction *repository.Transaction) *Dealer {
	return &Dealer{
		log:         log,
		matchRep:    matchRep,
		cardRep:     cardRep,
		userRep:     userRep,
		auditRep:    auditRep,
		transaction: transaction,
	}
}

// DealForMatch derives a card set for every active participant from the
// match's committed seed material. Dealing is deterministic: running it again
// for the same match reproduces the same cards.
func (d *Dealer) DealForMatch(matchID uuid.UUID) (int, error) {
	const op = "handlers.cards.generate.DealForMatch"

	match, err := d.matchRep.GetMatchByID(matchID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if match == nil {
		return 0, ErrMatchNotFound
	}

	if len(match.SeedMaterial) == 0 {
		return 0, fmt.Errorf("%s: match has no seed material", op)
	}

	users, err := d.userRep.ListActiveUsers()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := d.transaction.StartTransaction()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	baseSeed := match.SeedMaterial[0]
	total := 0

	for _, user := range users {
		for cardIndex := 1; cardIndex <= user.Role.CardCount(); cardIndex++ {
			numbers, dealErr := fairdraw.DealCard(
				baseSeed,
				match.ID.String(),
				user.ID.String(),
				cardIndex,
				match.NumbersPerCard,
				match.NumMin,
				match.NumMax)
			if dealErr != nil {
				d.rollback(tx)

				return 0, fmt.Errorf("%s: %w", op, dealErr)
			}

			card := model.Card{
				ID:        uuid.New(),
				MatchID:   match.ID,
				UserID:    user.ID,
				CardIndex: cardIndex,
				Numbers:   toInt64(numbers),
				Marked:    []int64{},
			}

			if saveErr := d.cardRep.SaveCardTx(tx, card); saveErr != nil {
				d.rollback(tx)

				return 0, fmt.Errorf("%s: %w", op, saveErr)
			}

			total++
		}
	}

	if err = d.transaction.CommitTransaction(tx); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if total > 0 {
		if err = d.auditRep.Log("cards_generated", &match.ID, nil, map[string]interface{}{
			"total_cards": total,
			"users_count": len(users),
		}); err != nil {
			d.log.Error("failed to write audit log", sl.Err(err))
		}
	}

	return total, nil
}

// New handles POST /matches/{id}/cards.
func (d *Dealer) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.cards.generate.New"

		log := d.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		matchID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			log.Error("invalid match id", sl.Err(err))

			render.JSON(w, r, resp.Error("invalid match id", http.StatusBadRequest))

			return
		}

		total, err := d.DealForMatch(matchID)
		if err != nil {
			if errors.Is(err, ErrMatchNotFound) {
				render.JSON(w, r, resp.Error("match not found", http.StatusNotFound))

				return
			}

			log.Error("failed to deal cards", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to deal cards", http.StatusInternalServerError))

			return
		}

		log.Info("cards dealt", slog.Int("total_cards", total))

		render.JSON(w, r, Response{
			Response:   resp.OK(),
			TotalCards: total,
		})
	}
}

func (d *Dealer) rollback(tx *sql.Tx) {
	if err := d.transaction.RollbackTransaction(tx); err != nil {
		d.log.Error("failed to rollback transaction", sl.Err(err))
	}
}

func toInt64(numbers []int) []int64 {
	out := make([]int64, len(numbers))
	for i, n := range numbers {
		out[i] = int64(n)
	}

	return out
}
