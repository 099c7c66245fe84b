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

type PersonService struct {
	store storage.Store
	writer
}

func (s *PersonService) Create(ctx context.Context, cmd CreatePersonCommand) (core.Person, error) {
	if err := cmd.Validate(); err != nil {
		return core.Person{}, err
	}
	p, err := core.NewPerson(cmd.Name, cmd.Age)
	if err != nil {
		return core.Person{}, err
	}
	if err := s.store.AddPerson(ctx, p); err != nil {
		return core.Person{}, fmt.Errorf("create person: %w", err)
	}

	s.logger.InfoContext(ctx, "Person created", log.FieldPersonID, p.ID, log.FieldOperation, log.OpCreate)
	s.committed(ctx, amqp.PersonCreated, p.ID.String())
	return p, nil
}

func (s *PersonService) Get(ctx context.Context, id uuid.UUID) (core.Person, error) {
	return s.store.GetPerson(ctx, id)
}

func (s *PersonService) List(ctx context.Context) ([]core.Person, error) {
	return s.store.ListPeople(ctx)
}

func (s *PersonService) Update(ctx context.Context, cmd UpdatePersonCommand) (core.Person, error) {
	if err := cmd.Validate(); err != nil {
		return core.Person{}, err
	}
	current, err := s.store.GetPerson(ctx, cmd.ID)
	if err != nil {
		return core.Person{}, err
	}
	updated, err := current.WithUpdate(cmd.Name, cmd.Age)
	if err != nil {
		return core.Person{}, err
	}
	if err := s.store.UpdatePerson(ctx, updated); err != nil {
		return core.Person{}, fmt.Errorf("update person: %w", err)
	}

	s.logger.InfoContext(ctx, "Person updated", log.FieldPersonID, updated.ID, log.FieldOperation, log.OpUpdate)
	s.committed(ctx, amqp.PersonUpdated, updated.ID.String())
	return updated, nil
}

// Delete removes the person and its transactions. Deleting an unknown id
// is not an error.
func (s *PersonService) Delete(ctx context.Context, id uuid.UUID) error {
	removed, err := s.store.DeletePerson(ctx, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if !removed {
		return nil
	}

	s.logger.InfoContext(ctx, "Person deleted", log.FieldPersonID, id, log.FieldOperation, log.OpDelete)
	s.committed(ctx, amqp.PersonDeleted, id.String())
	return nil
}

// Transactions lists the transactions recorded for an existing person.
func (s *PersonService) Transactions(ctx context.Context, id uuid.UUID) ([]core.Transaction, error) {
	if _, err := s.store.GetPerson(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListTransactionsByPerson(ctx, id)
}
