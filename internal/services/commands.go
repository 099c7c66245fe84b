package services

import (
	"github.com/FriggD/controle-gastos-residenciais/internal/core"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Commands carry caller input. Each one validates its own fields before
// any storage access happens.
type (
	CreatePersonCommand struct {
		Name string
		Age  int
	}

	UpdatePersonCommand struct {
		ID   uuid.UUID
		Name string
		Age  int
	}

	CreateCategoryCommand struct {
		Description string
		Purpose     core.Purpose
	}

	UpdateCategoryCommand struct {
		ID          uuid.UUID
		Description string
		Purpose     core.Purpose
	}

	CreateTransactionCommand struct {
		Description string
		Amount      decimal.Decimal
		Type        core.TransactionType
		CategoryID  uuid.UUID
		PersonID    uuid.UUID
	}
)

func (c CreatePersonCommand) Validate() error {
	return core.ValidatePerson(c.Name, c.Age)
}

func (c UpdatePersonCommand) Validate() error {
	return core.ValidatePerson(c.Name, c.Age)
}

func (c CreateCategoryCommand) Validate() error {
	return core.ValidateCategory(c.Description, c.Purpose)
}

func (c UpdateCategoryCommand) Validate() error {
	return core.ValidateCategory(c.Description, c.Purpose)
}

func (c CreateTransactionCommand) Validate() error {
	return core.ValidateTransaction(c.Description, c.Amount, c.Type, c.CategoryID, c.PersonID)
}
