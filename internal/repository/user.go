package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"go-bingohall/internal/http-server/handlers/postgres"
	"go-bingohall/internal/http-server/model"
)

type UserRepository struct {
	dbhandler postgres.Handler
}

func NewUserRepository(dbhandler postgres.Handler) *UserRepository {
	return &UserRepository{dbhandler: dbhandler}
}

func (repo *UserRepository) GetUserByID(id uuid.UUID) (*model.User, error) {
	const op = "repository.user.GetUserByID"

	const query = "SELECT id, role, status, created_at FROM users WHERE id = $1"

	row, err := repo.dbhandler.PrepareAndQueryRow(query, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := &model.User{}

	err = row.Scan(&user.ID, &user.Role, &user.Status, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (repo *UserRepository) ListActiveUsers() ([]model.User, error) {
	const op = "repository.user.ListActiveUsers"

	const query = "SELECT id, role, status, created_at FROM users WHERE status = 'active' ORDER BY created_at ASC"

	rows, err := repo.dbhandler.PrepareAndQuery(query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var users []model.User

	for rows.Next() {
		var user model.User

		if err = rows.Scan(&user.ID, &user.Role, &user.Status, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}
