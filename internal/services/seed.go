package services

import (
	"context"
	"fmt"

	"github.com/FriggD/controle-gastos-residenciais/internal/core"
	"github.com/shopspring/decimal"
)

// SeedResult counts the records created by Seed.
type SeedResult struct {
	People       int
	Categories   int
	Transactions int
}

// Seed records a small demo household through the services, so every
// validation and business rule applies to it.
func (l *Ledger) Seed(ctx context.Context) (SeedResult, error) {
	var res SeedResult

	people := []CreatePersonCommand{
		{Name: "João Silva", Age: 30},
		{Name: "Maria Santos", Age: 25},
		{Name: "Pedro Costa", Age: 17},
	}
	seededPeople := make([]core.Person, 0, len(people))
	for _, cmd := range people {
		p, err := l.People.Create(ctx, cmd)
		if err != nil {
			return res, fmt.Errorf("seed person %q: %w", cmd.Name, err)
		}
		seededPeople = append(seededPeople, p)
		res.People++
	}

	categories := []CreateCategoryCommand{
		{Description: "Alimentação", Purpose: core.PurposeExpense},
		{Description: "Salário", Purpose: core.PurposeIncome},
		{Description: "Transporte", Purpose: core.PurposeBoth},
	}
	seededCategories := make([]core.Category, 0, len(categories))
	for _, cmd := range categories {
		c, err := l.Categories.Create(ctx, cmd)
		if err != nil {
			return res, fmt.Errorf("seed category %q: %w", cmd.Description, err)
		}
		seededCategories = append(seededCategories, c)
		res.Categories++
	}

	transactions := []struct {
		description string
		amount      string
		kind        core.TransactionType
		person      int
		category    int
	}{
		{"Compra supermercado", "150.50", core.TypeExpense, 0, 0},
		{"Salário mensal", "3000", core.TypeIncome, 1, 1},
		{"Uber", "25.80", core.TypeExpense, 0, 2},
		{"Lanche escola", "15", core.TypeExpense, 2, 0},
	}
	for _, t := range transactions {
		_, err := l.Transactions.Create(ctx, CreateTransactionCommand{
			Description: t.description,
			Amount:      decimal.RequireFromString(t.amount),
			Type:        t.kind,
			CategoryID:  seededCategories[t.category].ID,
			PersonID:    seededPeople[t.person].ID,
		})
		if err != nil {
			return res, fmt.Errorf("seed transaction %q: %w", t.description, err)
		}
		res.Transactions++
	}

	return res, nil
}
