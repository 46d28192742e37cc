package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionType tags a transaction as income or expense.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Legacy string labels found in records written by earlier versions.
const (
	legacyIncomeLabel  = "수입"
	legacyExpenseLabel = "지출"
)

// Valid reports whether t is one of the two known types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// ParseTransactionType maps a stored label to the enum, accepting the
// legacy labels alongside the canonical ones.
func ParseTransactionType(s string) (TransactionType, error) {
	switch s {
	case string(Income), legacyIncomeLabel:
		return Income, nil
	case string(Expense), legacyExpenseLabel:
		return Expense, nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// UnmarshalBSONValue normalizes the historical encodings of
// transaction_type at the store boundary. Earlier records stored a boolean
// (true = income, false = expense) or a legacy string label; missing or
// null values stay untyped and are never counted as expenses.
func (t *TransactionType) UnmarshalBSONValue(bt bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: bt, Value: data}

	switch bt {
	case bson.TypeBoolean:
		b, ok := raw.BooleanOK()
		if !ok {
			return fmt.Errorf("invalid boolean transaction type")
		}
		if b {
			*t = Income
		} else {
			*t = Expense
		}
		return nil
	case bson.TypeString:
		s, ok := raw.StringValueOK()
		if !ok {
			return fmt.Errorf("invalid string transaction type")
		}
		parsed, err := ParseTransactionType(s)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case bson.TypeNull, bson.TypeUndefined:
		*t = ""
		return nil
	}
	return fmt.Errorf("cannot decode %s into transaction type", bt)
}

// Transaction is a single income or expense record owned by one user.
type Transaction struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID      primitive.ObjectID `bson:"uid" json:"uid"`
	Date     int64              `bson:"date" json:"date"` // epoch millis
	Category string             `bson:"category" json:"category"`
	Title    string             `bson:"title" json:"title"`
	Amount   float64            `bson:"amount" json:"amount"`
	Type     TransactionType    `bson:"transaction_type" json:"transaction_type"`
	Memo     string             `bson:"memo,omitempty" json:"memo,omitempty"`
}
