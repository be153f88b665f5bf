// Package model defines the raw items loaded by the item services.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Friend is a contact of the current user.
type Friend struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Card is a payment card of the current user.
type Card struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Holder string `json:"holder"`
}

// Transfer is a money transfer the current user took part in.
type Transfer struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Sender      string          `json:"sender"`
	Recipient   string          `json:"recipient"`
	Date        time.Time       `json:"date"`

	// IsSender is true if the current user sent the transfer, false if they received it.
	IsSender bool `json:"is_sender"`
}

// IsSent reports whether the current user sent the transfer.
func IsSent(t Transfer) bool {
	return t.IsSender
}

// IsReceived reports whether the current user received the transfer.
func IsReceived(t Transfer) bool {
	return !t.IsSender
}
