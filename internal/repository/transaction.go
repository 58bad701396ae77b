package repository

import (
	"database/sql"
	"fmt"

	"go-bingohall/internal/http-server/handlers/postgres"
)

type Transaction struct {
	dbhandler postgres.Handler
}

func NewTransaction(dbhandler postgres.Handler) *Transaction {
	return &Transaction{dbhandler: dbhandler}
}

func (tr *Transaction) StartTransaction() (*sql.Tx, error) {
	const op = "repository.transaction.StartTransaction"

	tx, err := tr.dbhandler.StartTransaction()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tx, nil
}

func (tr *Transaction) RollbackTransaction(tx *sql.Tx) error {
	const op = "repository.transaction.RollbackTransaction"

	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (tr *Transaction) CommitTransaction(tx *sql.Tx) error {
	const op = "repository.transaction.CommitTransaction"

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
