package core

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdultAge is the age from which a person may record income.
const AdultAge = 18

type (
	Person struct {
		ID   uuid.UUID
		Name string
		Age  int
	}

	Category struct {
		ID          uuid.UUID
		Description string
		Purpose     Purpose
	}

	// Transaction is immutable once recorded.
	Transaction struct {
		ID          uuid.UUID
		Description string
		Amount      decimal.Decimal
		Type        TransactionType
		CategoryID  uuid.UUID
		PersonID    uuid.UUID
	}
)

// NewPerson validates the fields and returns a person with a fresh id.
func NewPerson(name string, age int) (Person, error) {
	name = strings.TrimSpace(name)
	if err := ValidatePerson(name, age); err != nil {
		return Person{}, err
	}
	return Person{ID: uuid.New(), Name: name, Age: age}, nil
}

// WithUpdate returns a copy of p carrying the new name and age.
func (p Person) WithUpdate(name string, age int) (Person, error) {
	name = strings.TrimSpace(name)
	if err := ValidatePerson(name, age); err != nil {
		return Person{}, err
	}
	p.Name = name
	p.Age = age
	return p, nil
}

// IsMinor reports whether the person is younger than AdultAge.
func (p Person) IsMinor() bool {
	return p.Age < AdultAge
}

func NewCategory(description string, purpose Purpose) (Category, error) {
	description = strings.TrimSpace(description)
	if err := ValidateCategory(description, purpose); err != nil {
		return Category{}, err
	}
	return Category{ID: uuid.New(), Description: description, Purpose: purpose}, nil
}

func (c Category) WithUpdate(description string, purpose Purpose) (Category, error) {
	description = strings.TrimSpace(description)
	if err := ValidateCategory(description, purpose); err != nil {
		return Category{}, err
	}
	c.Description = description
	c.Purpose = purpose
	return c, nil
}

// AcceptsType reports whether transactions of type t may use this category.
func (c Category) AcceptsType(t TransactionType) bool {
	switch c.Purpose {
	case PurposeBoth:
		return true
	case PurposeExpense:
		return t == TypeExpense
	case PurposeIncome:
		return t == TypeIncome
	default:
		return false
	}
}

// NewTransaction validates the fields, rounds the amount to cents and
// assigns a fresh id. Cross-entity rules are checked by the caller.
func NewTransaction(description string, amount decimal.Decimal, t TransactionType, categoryID, personID uuid.UUID) (Transaction, error) {
	description = strings.TrimSpace(description)
	if err := ValidateTransaction(description, amount, t, categoryID, personID); err != nil {
		return Transaction{}, err
	}
	amount = RoundAmount(amount)
	return Transaction{
		ID:          uuid.New(),
		Description: description,
		Amount:      amount,
		Type:        t,
		CategoryID:  categoryID,
		PersonID:    personID,
	}, nil
}

// CheckRecordable applies the rules that span person, category and
// transaction type. Order matters: the minor rule is reported first.
func CheckRecordable(p Person, c Category, t TransactionType) error {
	if p.IsMinor() && t == TypeIncome {
		return ErrMinorIncome
	}
	if !c.AcceptsType(t) {
		return ErrCategoryTypeMismatch
	}
	return nil
}
