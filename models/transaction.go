package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType is the direction of a ledger entry
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// SalesCategory is the ledger category used for income posted from orders
const SalesCategory = "Vendas"

// ParseTransactionType maps input to a TransactionType. There is no default: the direction of
// a ledger entry must always be given.
func ParseTransactionType(value string) (TransactionType, error) {
	switch normalize(value) {
	case "income":
		return TransactionIncome, nil
	case "expense":
		return TransactionExpense, nil
	}
	return "", fmt.Errorf("%w: transaction type %q", ErrUnknownValue, value)
}

// Transaction is a ledger entry. Entries are never updated once written.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Description string          `gorm:"not null" json:"description"`
	Type        TransactionType `gorm:"type:varchar(10);not null;index" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Category    string          `gorm:"not null;index" json:"category"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	OrderID     *uint           `gorm:"index" json:"order_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TableName specifies the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// BeforeSave stores the entry date in UTC. SQLite compares timestamps as text, so every row and
// every query bound must carry the same offset.
func (t *Transaction) BeforeSave(tx *gorm.DB) error {
	t.Date = t.Date.UTC()
	return nil
}
