package repository

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"go-bingohall/internal/http-server/handlers/postgres"
	"go-bingohall/internal/http-server/model"
)

type AuditRepository struct {
	dbhandler postgres.Handler
}

func NewAuditRepository(dbhandler postgres.Handler) *AuditRepository {
	return &AuditRepository{dbhandler: dbhandler}
}

// Log appends an audit entry. Callers treat failures as best-effort: a broken
// audit write must not fail the operation being audited.
func (repo *AuditRepository) Log(eventType string, matchID, userID *uuid.UUID, payload map[string]interface{}) error {
	const op = "repository.audit.Log"

	const query = "INSERT INTO event_log(match_id, user_id, type, payload) VALUES($1, $2, $3, $4)"

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = repo.dbhandler.PrepareAndExecute(query, matchID, userID, eventType, string(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ListEvents returns the newest audit entries for a match, newest first.
func (repo *AuditRepository) ListEvents(matchID uuid.UUID, limit int) ([]model.EventLog, error) {
	const op = "repository.audit.ListEvents"

	const query = "SELECT id, match_id, user_id, type, payload, created_at FROM event_log" +
		" WHERE match_id = $1 ORDER BY id DESC LIMIT $2"

	rows, err := repo.dbhandler.PrepareAndQuery(query, matchID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var events []model.EventLog

	for rows.Next() {
		var (
			entry model.EventLog
			body  []byte
		)

		if err = rows.Scan(&entry.ID, &entry.MatchID, &entry.UserID, &entry.Type, &body, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if len(body) > 0 {
			if err = json.Unmarshal(body, &entry.Payload); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}

		events = append(events, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return events, nil
}
