package draw

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/exp/slog"

	"go-bingohall/internal/config"
	"go-bingohall/internal/fairdraw"
	"go-bingohall/internal/http-server/handlers/event"
	"go-bingohall/internal/http-server/handlers/job"
	"go-bingohall/internal/http-server/model"
	"go-bingohall/internal/lib/logger/sl"
	"go-bingohall/internal/lib/timeutil"
	"go-bingohall/internal/repository"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrMatchNotLive  = errors.New("match is not live")
	ErrNoDraws       = errors.New("no numbers drawn yet")
	ErrOutOfRange    = errors.New("number is outside the match range")
	ErrAlreadyDrawn  = errors.New("number was already drawn")
)

type Result struct {
	DrawIndex int       `json:"draw_index"`
	Number    int       `json:"number"`
	Signature string    `json:"signature"`
	CreatedAt time.Time `json:"created_at"`
}

type Draw struct {
	log          *slog.Logger
	matchRep     *repository.MatchRepository
	drawRep      *repository.DrawRepository
	cardRep      *repository.CardRepository
	auditRep     *repository.AuditRepository
	registry     *fairdraw.Registry
	event        event.Broadcaster
	cache        *cache.Cache
	serverSecret string
}

func NewDraw(
	log *slog.Logger,
	matchRep *repository.MatchRepository,
	drawRep *repository.DrawRepository,
	cardRep *repository.CardRepository,
	auditRep *repository.AuditRepository,
	registry *fairdraw.Registry,
	eventClient event.Broadcaster,
	serverSecret string) *Draw {
	return &Draw{
		log:          log,
		matchRep:     matchRep,
		drawRep:      drawRep,
		cardRep:      cardRep,
		auditRep:     auditRep,
		registry:     registry,
		event:        eventClient,
		cache:        cache.New(5*time.Minute, 10*time.Minute),
		serverSecret: serverSecret,
	}
}

// matchSettings is the immutable, cacheable part of a match. Status is never
// cached: liveness is re-read from storage right before every draw.
type matchSettings struct {
	NumMin   int
	NumMax   int
	BaseSeed string
}

func (d *Draw) settings(matchID uuid.UUID) (*matchSettings, error) {
	if cached, found := d.cache.Get(matchID.String()); found {
		return cached.(*matchSettings), nil
	}

	match, err := d.matchRep.GetMatchByID(matchID)
	if err != nil {
		return nil, err
	}

	if match == nil {
		return nil, ErrMatchNotFound
	}

	if len(match.SeedMaterial) == 0 {
		return nil, fmt.Errorf("match %s has no seed material", matchID)
	}

	settings := &matchSettings{
		NumMin:   match.NumMin,
		NumMax:   match.NumMax,
		BaseSeed: match.SeedMaterial[0],
	}

	d.cache.Set(matchID.String(), settings, cache.DefaultExpiration)

	return settings, nil
}

func (d *Draw) liveStatus(matchID uuid.UUID) error {
	match, err := d.matchRep.GetMatchByID(matchID)
	if err != nil {
		return err
	}

	if match == nil {
		return ErrMatchNotFound
	}

	if match.Status != config.Live {
		return ErrMatchNotLive
	}

	return nil
}

func (d *Draw) rebuild(matchID uuid.UUID, settings *matchSettings) func() (*fairdraw.NumberDrawer, error) {
	return func() (*fairdraw.NumberDrawer, error) {
		draws, err := d.drawRep.ListDraws(matchID)
		if err != nil {
			return nil, err
		}

		drawn := make([]int, 0, len(draws))
		for _, dr := range draws {
			drawn = append(drawn, dr.Number)
		}

		return fairdraw.Rebuild(settings.NumMin, settings.NumMax, settings.BaseSeed, drawn), nil
	}
}

// DrawNext pops the match's next number, signs it and appends it to the
// ledger. A (nil, true, nil) return means the sequence is exhausted, the
// normal end-of-match signal.
func (d *Draw) DrawNext(matchID, userID uuid.UUID) (*Result, bool, error) {
	const op = "handlers.match.draw.DrawNext"

	log := d.log.With(slog.String("op", op), sl.String("match_id", matchID.String()))

	if err := d.liveStatus(matchID); err != nil {
		return nil, false, err
	}

	settings, err := d.settings(matchID)
	if err != nil {
		return nil, false, err
	}

	var (
		result   *Result
		gameOver bool
	)

	err = d.registry.Do(matchID.String(), d.rebuild(matchID, settings), func(drawer *fairdraw.NumberDrawer, invalidate func()) error {
		number, ok := drawer.DrawNext()
		if !ok {
			gameOver = true

			return nil
		}

		res, appendErr := d.appendDraw(matchID, userID, number)
		if appendErr != nil {
			// The drawer already advanced but the ledger did not; clear
			// the in-memory state so the next call rebuilds from the ledger.
			invalidate()

			return appendErr
		}

		result = res
		gameOver = drawer.RemainingCount() == 0

		return nil
	})
	if err != nil {
		log.Error("failed to draw next number", sl.Err(err))

		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	if result != nil {
		log.Info("number drawn",
			slog.Int("draw_index", result.DrawIndex),
			slog.Int("number", result.Number))

		d.afterDraw(matchID, userID, result)
	}

	return result, gameOver, nil
}

// DrawManual records an operator-called number. The number is validated
// against the range and the ledger, then removed from the remaining sequence
// so the drawer can never emit it again.
func (d *Draw) DrawManual(matchID, userID uuid.UUID, number int) (*Result, bool, error) {
	const op = "handlers.match.draw.DrawManual"

	log := d.log.With(slog.String("op", op), sl.String("match_id", matchID.String()))

	if err := d.liveStatus(matchID); err != nil {
		return nil, false, err
	}

	settings, err := d.settings(matchID)
	if err != nil {
		return nil, false, err
	}

	if number < settings.NumMin || number > settings.NumMax {
		return nil, false, ErrOutOfRange
	}

	// Check the ledger as well as the in-memory pool: the pool is structural
	// truth, the ledger is persisted truth, and a manual call must pass both.
	alreadyDrawn, err := d.drawRep.NumberAlreadyDrawn(matchID, number)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	if alreadyDrawn {
		return nil, false, ErrAlreadyDrawn
	}

	var (
		result   *Result
		gameOver bool
	)

	err = d.registry.Do(matchID.String(), d.rebuild(matchID, settings), func(drawer *fairdraw.NumberDrawer, invalidate func()) error {
		if !drawer.Remove(number) {
			return ErrAlreadyDrawn
		}

		res, appendErr := d.appendDraw(matchID, userID, number)
		if appendErr != nil {
			invalidate()

			return appendErr
		}

		result = res
		gameOver = drawer.RemainingCount() == 0

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyDrawn) {
			return nil, false, err
		}

		log.Error("failed to record manual draw", sl.Err(err))

		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("manual number drawn",
		slog.Int("draw_index", result.DrawIndex),
		slog.Int("number", result.Number))

	d.afterDraw(matchID, userID, result)

	return result, gameOver, nil
}

// Undo deletes the most recent ledger record and rewinds the drawer by
// rebuilding it from the committed seed and what remains in the ledger.
func (d *Draw) Undo(matchID, userID uuid.UUID) (*model.Draw, error) {
	const op = "handlers.match.draw.Undo"

	log := d.log.With(slog.String("op", op), sl.String("match_id", matchID.String()))

	lastDraw, err := d.drawRep.GetLastDraw(matchID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if lastDraw == nil {
		return nil, ErrNoDraws
	}

	settings, err := d.settings(matchID)
	if err != nil {
		return nil, err
	}

	err = d.registry.Do(matchID.String(), d.rebuild(matchID, settings), func(drawer *fairdraw.NumberDrawer, invalidate func()) error {
		if deleteErr := d.drawRep.DeleteDraw(lastDraw.ID); deleteErr != nil {
			return deleteErr
		}

		// Discard and rebuild rather than pushing the number back: the
		// post-undo state must be identical to never having drawn it.
		rebuilt, rebuildErr := d.rebuild(matchID, settings)()
		if rebuildErr != nil {
			invalidate()

			return rebuildErr
		}

		*drawer = *rebuilt

		return nil
	})
	if err != nil {
		log.Error("failed to undo last draw", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("last draw undone",
		slog.Int("draw_index", lastDraw.DrawIndex),
		slog.Int("number", lastDraw.Number))

	if err = d.auditRep.Log("draw_undone", &matchID, &userID, map[string]interface{}{
		"undone_draw_index": lastDraw.DrawIndex,
		"undone_number":     lastDraw.Number,
	}); err != nil {
		log.Error("failed to write audit log", sl.Err(err))
	}

	d.broadcast(matchID, "draw:undone", map[string]interface{}{
		"match_id":          matchID.String(),
		"undone_draw_index": lastDraw.DrawIndex,
		"undone_number":     lastDraw.Number,
	})

	return lastDraw, nil
}

func (d *Draw) appendDraw(matchID, userID uuid.UUID, number int) (*Result, error) {
	lastDraw, err := d.drawRep.GetLastDraw(matchID)
	if err != nil {
		return nil, err
	}

	drawIndex := 1
	if lastDraw != nil {
		drawIndex = lastDraw.DrawIndex + 1
	}

	timestamp := time.Now()
	signature := fairdraw.SignDraw(matchID.String(), drawIndex, number, timestamp, d.serverSecret)

	record := model.Draw{
		ID:        uuid.New(),
		MatchID:   matchID,
		DrawIndex: drawIndex,
		Number:    number,
		Signature: signature,
		DrawnBy:   userID,
		CreatedAt: timestamp,
	}

	if err = d.drawRep.SaveDraw(record); err != nil {
		return nil, err
	}

	return &Result{
		DrawIndex: drawIndex,
		Number:    number,
		Signature: signature,
		CreatedAt: timestamp,
	}, nil
}

func (d *Draw) afterDraw(matchID, userID uuid.UUID, result *Result) {
	log := d.log.With(sl.String("match_id", matchID.String()))

	if err := d.markCards(matchID, result.Number, result.DrawIndex); err != nil {
		// Card marking must not fail the draw itself.
		log.Error("failed to mark cards", sl.Err(err))
	}

	if err := d.auditRep.Log("number_drawn", &matchID, &userID, map[string]interface{}{
		"draw_index": result.DrawIndex,
		"number":     result.Number,
		"signature":  result.Signature,
	}); err != nil {
		log.Error("failed to write audit log", sl.Err(err))
	}

	d.broadcast(matchID, "draw:new", map[string]interface{}{
		"match_id":   matchID.String(),
		"draw_index": result.DrawIndex,
		"number":     result.Number,
		"created_at": timeutil.ISO8601(result.CreatedAt),
	})
}

func (d *Draw) markCards(matchID uuid.UUID, number, drawIndex int) error {
	const op = "handlers.match.draw.markCards"

	cards, err := d.cardRep.GetCardsWithNumber(matchID, number)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, card := range cards {
		marked := card.Marked

		already := false
		for _, m := range marked {
			if m == int64(number) {
				already = true
			}
		}
		if !already {
			marked = append(marked, int64(number))
		}

		if err = d.cardRep.UpdateMarked(card.ID, marked); err != nil {
			d.log.Error("failed to update card marks", sl.Err(err))

			continue
		}

		isBingo := len(marked) == len(card.Numbers)

		d.broadcast(matchID, "card:update", map[string]interface{}{
			"card_id":   card.ID.String(),
			"marked":    marked,
			"is_winner": isBingo,
		})

		switch {
		case isBingo:
			if err = d.cardRep.MarkWinner(card.ID, drawIndex, time.Now()); err != nil {
				d.log.Error("failed to mark winner", sl.Err(err))

				continue
			}

			cardUserID := card.UserID
			if err = d.auditRep.Log("bingo_achieved", &matchID, &cardUserID, map[string]interface{}{
				"card_id":    card.ID.String(),
				"draw_index": drawIndex,
				"number":     number,
			}); err != nil {
				d.log.Error("failed to write audit log", sl.Err(err))
			}

			d.broadcast(matchID, "bingo", map[string]interface{}{
				"user_id":    card.UserID.String(),
				"card_id":    card.ID.String(),
				"draw_index": drawIndex,
			})
		case len(marked) == len(card.Numbers)-1:
			d.broadcast(matchID, "near_win", map[string]interface{}{
				"user_id": card.UserID.String(),
				"card_id": card.ID.String(),
				"missing": 1,
			})
		}
	}

	return nil
}

func (d *Draw) broadcast(matchID uuid.UUID, eventName string, data map[string]interface{}) {
	message := event.Message{
		Channel: "match-" + matchID.String(),
		Event:   eventName,
		Data:    data,
	}

	job.Dispatch(&job.SendEventJob{EventMessage: message, Event: d.event}, 0)
}
