package core

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MaxNameLength        = 200
	MaxDescriptionLength = 400
)

// FieldError is a single rejected field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors accumulates field errors in the order they were found.
type ValidationErrors struct {
	Fields []FieldError
}

func (v *ValidationErrors) Add(field, message string) {
	v.Fields = append(v.Fields, FieldError{Field: field, Message: message})
}

// Err returns v as an error, or nil when no field was rejected.
func (v *ValidationErrors) Err() error {
	if v == nil || len(v.Fields) == 0 {
		return nil
	}
	return v
}

func (v *ValidationErrors) Error() string {
	parts := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Map returns the first message per field.
func (v *ValidationErrors) Map() map[string]string {
	m := make(map[string]string, len(v.Fields))
	for _, f := range v.Fields {
		if _, ok := m[f.Field]; !ok {
			m[f.Field] = f.Message
		}
	}
	return m
}

func checkText(v *ValidationErrors, field, value string, max int) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		v.Add(field, field+" is required")
	case utf8.RuneCountInString(value) > max:
		v.Add(field, field+" must be at most "+itoa(max)+" characters")
	}
}

func checkAmount(v *ValidationErrors, amount decimal.Decimal) {
	if exp := amount.Exponent(); exp < minAmountExponent || exp > maxAmountExponent {
		v.Add("amount", "amount is out of range")
		return
	}
	rounded := RoundAmount(amount)
	switch {
	case !rounded.IsPositive():
		v.Add("amount", "amount must be greater than zero")
	case rounded.GreaterThan(MaxAmount):
		v.Add("amount", "amount must be at most "+FormatAmount(MaxAmount))
	}
}

func ValidatePerson(name string, age int) error {
	var v ValidationErrors
	checkText(&v, "name", name, MaxNameLength)
	if age <= 0 {
		v.Add("age", "age must be greater than zero")
	}
	return v.Err()
}

func ValidateCategory(description string, purpose Purpose) error {
	var v ValidationErrors
	checkText(&v, "description", description, MaxDescriptionLength)
	if !purpose.Valid() {
		v.Add("purpose", "purpose must be one of expense, income, both")
	}
	return v.Err()
}

func ValidateTransaction(description string, amount decimal.Decimal, t TransactionType, categoryID, personID uuid.UUID) error {
	var v ValidationErrors
	checkText(&v, "description", description, MaxDescriptionLength)
	checkAmount(&v, amount)
	if !t.Valid() {
		v.Add("type", "type must be one of expense, income")
	}
	if categoryID == uuid.Nil {
		v.Add("categoryId", "categoryId is required")
	}
	if personID == uuid.Nil {
		v.Add("personId", "personId is required")
	}
	return v.Err()
}
