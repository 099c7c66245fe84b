package services

import (
	"context"
	"fmt"

	"github.com/FriggD/controle-gastos-residenciais/internal/amqp"
	"github.com/FriggD/controle-gastos-residenciais/internal/core"
	"github.com/FriggD/controle-gastos-residenciais/internal/log"
	"github.com/FriggD/controle-gastos-residenciais/internal/storage"
	"github.com/google/uuid"
)

type TransactionService struct {
	store      storage.TransactionRepository
	people     storage.PersonRepository
	categories storage.CategoryRepository
	writer
}

// Create records a transaction. Checks run in a fixed order: fields,
// person existence, category existence, the minor rule, then the
// category purpose.
func (s *TransactionService) Create(ctx context.Context, cmd CreateTransactionCommand) (core.Transaction, error) {
	if err := cmd.Validate(); err != nil {
		return core.Transaction{}, err
	}

	person, err := s.people.GetPerson(ctx, cmd.PersonID)
	if err != nil {
		return core.Transaction{}, err
	}
	category, err := s.categories.GetCategory(ctx, cmd.CategoryID)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := core.CheckRecordable(person, category, cmd.Type); err != nil {
		return core.Transaction{}, err
	}

	tx, err := core.NewTransaction(cmd.Description, cmd.Amount, cmd.Type, category.ID, person.ID)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.AddTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction recorded", log.NewFields().
		WithTransaction(tx.ID.String(), tx.PersonID.String(), tx.CategoryID.String(), tx.Type.String(), core.FormatAmount(tx.Amount)).
		WithOperation(log.OpCreate).
		ToSlice()...)
	s.committed(ctx, amqp.TransactionCreated, tx.ID.String())
	return tx, nil
}

func (s *TransactionService) Get(ctx context.Context, id uuid.UUID) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx)
}
