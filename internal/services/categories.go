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

type CategoryService struct {
	store        storage.CategoryRepository
	transactions storage.TransactionRepository
	writer
}

func (s *CategoryService) Create(ctx context.Context, cmd CreateCategoryCommand) (core.Category, error) {
	if err := cmd.Validate(); err != nil {
		return core.Category{}, err
	}
	c, err := core.NewCategory(cmd.Description, cmd.Purpose)
	if err != nil {
		return core.Category{}, err
	}
	if err := s.store.AddCategory(ctx, c); err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}

	s.logger.InfoContext(ctx, "Category created", log.FieldCategoryID, c.ID, log.FieldOperation, log.OpCreate)
	s.committed(ctx, amqp.CategoryCreated, c.ID.String())
	return c, nil
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (core.Category, error) {
	return s.store.GetCategory(ctx, id)
}

func (s *CategoryService) List(ctx context.Context) ([]core.Category, error) {
	return s.store.ListCategories(ctx)
}

// Update changes description and purpose. Existing transactions are not
// re-checked against the new purpose.
func (s *CategoryService) Update(ctx context.Context, cmd UpdateCategoryCommand) (core.Category, error) {
	if err := cmd.Validate(); err != nil {
		return core.Category{}, err
	}
	current, err := s.store.GetCategory(ctx, cmd.ID)
	if err != nil {
		return core.Category{}, err
	}
	updated, err := current.WithUpdate(cmd.Description, cmd.Purpose)
	if err != nil {
		return core.Category{}, err
	}
	if err := s.store.UpdateCategory(ctx, updated); err != nil {
		return core.Category{}, fmt.Errorf("update category: %w", err)
	}

	s.logger.InfoContext(ctx, "Category updated", log.FieldCategoryID, updated.ID, log.FieldOperation, log.OpUpdate)
	s.committed(ctx, amqp.CategoryUpdated, updated.ID.String())
	return updated, nil
}

// Delete refuses to remove a category that transactions still reference.
// The store enforces the same rule for deletes racing with inserts.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.store.GetCategory(ctx, id); err != nil {
		return err
	}
	n, err := s.transactions.CountTransactionsByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: category is referenced by %d transaction(s)", core.ErrConflict, n)
	}

	removed, err := s.store.DeleteCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if !removed {
		return core.NotFound("category", id)
	}

	s.logger.InfoContext(ctx, "Category deleted", log.FieldCategoryID, id, log.FieldOperation, log.OpDelete)
	s.committed(ctx, amqp.CategoryDeleted, id.String())
	return nil
}
