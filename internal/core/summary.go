package core

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReportKind string

const (
	ReportByPerson   ReportKind = "person"
	ReportByCategory ReportKind = "category"
)

func (k ReportKind) Valid() bool {
	return k == ReportByPerson || k == ReportByCategory
}

type (
	// TotalsRow holds the sums for one person or category.
	TotalsRow struct {
		ID           uuid.UUID
		Label        string
		TotalIncome  decimal.Decimal
		TotalExpense decimal.Decimal
		Balance      decimal.Decimal
	}

	GrandTotal struct {
		TotalIncome  decimal.Decimal
		TotalExpense decimal.Decimal
		Balance      decimal.Decimal
	}

	TotalsReport struct {
		Kind       ReportKind
		Rows       []TotalsRow
		GrandTotal GrandTotal
	}
)

// TotalsByPerson builds one row per person in the given order, including
// people without transactions.
func TotalsByPerson(people []Person, txs []Transaction) TotalsReport {
	groups := make([]group, len(people))
	for i, p := range people {
		groups[i] = group{id: p.ID, label: p.Name}
	}
	return aggregate(ReportByPerson, groups, txs, func(t Transaction) uuid.UUID { return t.PersonID })
}

// TotalsByCategory builds one row per category in the given order.
func TotalsByCategory(categories []Category, txs []Transaction) TotalsReport {
	groups := make([]group, len(categories))
	for i, c := range categories {
		groups[i] = group{id: c.ID, label: c.Description}
	}
	return aggregate(ReportByCategory, groups, txs, func(t Transaction) uuid.UUID { return t.CategoryID })
}

type group struct {
	id    uuid.UUID
	label string
}

type sums struct {
	income, expense decimal.Decimal
}

func aggregate(kind ReportKind, groups []group, txs []Transaction, key func(Transaction) uuid.UUID) TotalsReport {
	byID := make(map[uuid.UUID]*sums, len(groups))
	for _, g := range groups {
		byID[g.id] = &sums{}
	}
	for _, t := range txs {
		s, ok := byID[key(t)]
		if !ok {
			// orphan rows are ignored; the store forbids them
			continue
		}
		switch t.Type {
		case TypeIncome:
			s.income = s.income.Add(t.Amount)
		case TypeExpense:
			s.expense = s.expense.Add(t.Amount)
		}
	}

	report := TotalsReport{Kind: kind, Rows: make([]TotalsRow, 0, len(groups))}
	var income, expense decimal.Decimal
	for _, g := range groups {
		s := byID[g.id]
		income = income.Add(s.income)
		expense = expense.Add(s.expense)
		report.Rows = append(report.Rows, TotalsRow{
			ID:           g.id,
			Label:        g.label,
			TotalIncome:  s.income,
			TotalExpense: s.expense,
			Balance:      s.income.Sub(s.expense),
		})
	}
	report.GrandTotal = GrandTotal{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
	}
	return report
}
