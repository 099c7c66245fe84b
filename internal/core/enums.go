package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TransactionType codes match the numeric values used by the legacy clients.
type TransactionType int

const (
	TypeExpense TransactionType = 1
	TypeIncome  TransactionType = 2
)

// Purpose restricts which transaction types a category accepts.
type Purpose int

const (
	PurposeExpense Purpose = 1
	PurposeIncome  Purpose = 2
	PurposeBoth    Purpose = 3
)

func (t TransactionType) Valid() bool {
	return t == TypeExpense || t == TypeIncome
}

func (t TransactionType) String() string {
	switch t {
	case TypeExpense:
		return "expense"
	case TypeIncome:
		return "income"
	default:
		return "TransactionType(" + strconv.Itoa(int(t)) + ")"
	}
}

// ParseTransactionType accepts the English name, the Portuguese name or
// the numeric code. Unknown input yields the zero value, which is invalid.
func ParseTransactionType(s string) TransactionType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense", "despesa", "1":
		return TypeExpense
	case "income", "receita", "2":
		return TypeIncome
	default:
		return 0
	}
}

func (t TransactionType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("marshal transaction type: invalid value %d", int(t))
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON never fails on unknown names so that validation can report
// the field instead of the decoder rejecting the whole body.
func (t *TransactionType) UnmarshalJSON(b []byte) error {
	code, name, err := decodeEnum(b)
	if err != nil {
		return fmt.Errorf("decode transaction type: %w", err)
	}
	if name != "" {
		*t = ParseTransactionType(name)
		return nil
	}
	*t = TransactionType(code)
	return nil
}

func (p Purpose) Valid() bool {
	return p == PurposeExpense || p == PurposeIncome || p == PurposeBoth
}

func (p Purpose) String() string {
	switch p {
	case PurposeExpense:
		return "expense"
	case PurposeIncome:
		return "income"
	case PurposeBoth:
		return "both"
	default:
		return "Purpose(" + strconv.Itoa(int(p)) + ")"
	}
}

func ParsePurpose(s string) Purpose {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense", "despesa", "1":
		return PurposeExpense
	case "income", "receita", "2":
		return PurposeIncome
	case "both", "ambas", "3":
		return PurposeBoth
	default:
		return 0
	}
}

func (p Purpose) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("marshal purpose: invalid value %d", int(p))
	}
	return json.Marshal(p.String())
}

func (p *Purpose) UnmarshalJSON(b []byte) error {
	code, name, err := decodeEnum(b)
	if err != nil {
		return fmt.Errorf("decode purpose: %w", err)
	}
	if name != "" {
		*p = ParsePurpose(name)
		return nil
	}
	*p = Purpose(code)
	return nil
}

// decodeEnum reads either a JSON string or a JSON integer.
func decodeEnum(b []byte) (int, string, error) {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0, "", err
		}
		if s == "" {
			return 0, "", nil
		}
		return 0, s, nil
	}
	if bytes.Equal(b, []byte("null")) {
		return 0, "", nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return 0, "", err
	}
	return n, "", nil
}
