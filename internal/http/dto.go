package http

import (
	"encoding/json"

	"github.com/FriggD/controle-gastos-residenciais/internal/core"
	"github.com/FriggD/controle-gastos-residenciais/internal/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request bodies. On PUT the body id is optional but must match the path.
type (
	personRequest struct {
		ID   *uuid.UUID `json:"id,omitempty"`
		Name string     `json:"name"`
		Age  int        `json:"age"`
	}

	categoryRequest struct {
		ID          *uuid.UUID   `json:"id,omitempty"`
		Description string       `json:"description"`
		Purpose     core.Purpose `json:"purpose"`
	}

	transactionRequest struct {
		Description string               `json:"description"`
		Amount      decimal.Decimal      `json:"amount"`
		Type        core.TransactionType `json:"type"`
		CategoryID  uuid.UUID            `json:"categoryId"`
		PersonID    uuid.UUID            `json:"personId"`
	}
)

func (r personRequest) createCommand() services.CreatePersonCommand {
	return services.CreatePersonCommand{Name: r.Name, Age: r.Age}
}

func (r personRequest) updateCommand(id uuid.UUID) services.UpdatePersonCommand {
	return services.UpdatePersonCommand{ID: id, Name: r.Name, Age: r.Age}
}

func (r categoryRequest) createCommand() services.CreateCategoryCommand {
	return services.CreateCategoryCommand{Description: r.Description, Purpose: r.Purpose}
}

func (r categoryRequest) updateCommand(id uuid.UUID) services.UpdateCategoryCommand {
	return services.UpdateCategoryCommand{ID: id, Description: r.Description, Purpose: r.Purpose}
}

func (r transactionRequest) command() services.CreateTransactionCommand {
	return services.CreateTransactionCommand{
		Description: r.Description,
		Amount:      r.Amount,
		Type:        r.Type,
		CategoryID:  r.CategoryID,
		PersonID:    r.PersonID,
	}
}

// Response bodies.
type (
	personResponse struct {
		ID   uuid.UUID `json:"id"`
		Name string    `json:"name"`
		Age  int       `json:"age"`
	}

	categoryResponse struct {
		ID          uuid.UUID    `json:"id"`
		Description string       `json:"description"`
		Purpose     core.Purpose `json:"purpose"`
	}

	transactionResponse struct {
		ID          uuid.UUID            `json:"id"`
		Description string               `json:"description"`
		Amount      json.Number          `json:"amount"`
		Type        core.TransactionType `json:"type"`
		CategoryID  uuid.UUID            `json:"categoryId"`
		PersonID    uuid.UUID            `json:"personId"`
	}

	personTotalsRow struct {
		PersonID     uuid.UUID   `json:"personId"`
		Name         string      `json:"name"`
		TotalIncome  json.Number `json:"totalIncome"`
		TotalExpense json.Number `json:"totalExpense"`
		Balance      json.Number `json:"balance"`
	}

	categoryTotalsRow struct {
		CategoryID   uuid.UUID   `json:"categoryId"`
		Description  string      `json:"description"`
		TotalIncome  json.Number `json:"totalIncome"`
		TotalExpense json.Number `json:"totalExpense"`
		Balance      json.Number `json:"balance"`
	}

	grandTotalResponse struct {
		TotalIncome  json.Number `json:"totalIncome"`
		TotalExpense json.Number `json:"totalExpense"`
		Balance      json.Number `json:"balance"`
	}

	totalsResponse[R any] struct {
		Rows       []R                `json:"rows"`
		GrandTotal grandTotalResponse `json:"grandTotal"`
	}
)

// amount renders a decimal as a JSON number with exactly two places.
func amount(d decimal.Decimal) json.Number {
	return json.Number(core.FormatAmount(d))
}

func toPerson(p core.Person) personResponse {
	return personResponse{ID: p.ID, Name: p.Name, Age: p.Age}
}

func toCategory(c core.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Description: c.Description, Purpose: c.Purpose}
}

func toTransaction(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Description: t.Description,
		Amount:      amount(t.Amount),
		Type:        t.Type,
		CategoryID:  t.CategoryID,
		PersonID:    t.PersonID,
	}
}

func mapSlice[T, R any](items []T, f func(T) R) []R {
	out := make([]R, len(items))
	for i, item := range items {
		out[i] = f(item)
	}
	return out
}

func toGrandTotal(g core.GrandTotal) grandTotalResponse {
	return grandTotalResponse{
		TotalIncome:  amount(g.TotalIncome),
		TotalExpense: amount(g.TotalExpense),
		Balance:      amount(g.Balance),
	}
}

func toPersonTotals(r core.TotalsReport) totalsResponse[personTotalsRow] {
	return totalsResponse[personTotalsRow]{
		Rows: mapSlice(r.Rows, func(row core.TotalsRow) personTotalsRow {
			return personTotalsRow{
				PersonID:     row.ID,
				Name:         row.Label,
				TotalIncome:  amount(row.TotalIncome),
				TotalExpense: amount(row.TotalExpense),
				Balance:      amount(row.Balance),
			}
		}),
		GrandTotal: toGrandTotal(r.GrandTotal),
	}
}

func toCategoryTotals(r core.TotalsReport) totalsResponse[categoryTotalsRow] {
	return totalsResponse[categoryTotalsRow]{
		Rows: mapSlice(r.Rows, func(row core.TotalsRow) categoryTotalsRow {
			return categoryTotalsRow{
				CategoryID:   row.ID,
				Description:  row.Label,
				TotalIncome:  amount(row.TotalIncome),
				TotalExpense: amount(row.TotalExpense),
				Balance:      amount(row.Balance),
			}
		}),
		GrandTotal: toGrandTotal(r.GrandTotal),
	}
}
