package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type WalletTrxType string

const (
	WalletTrxCredit WalletTrxType = "credit" // released escrow paid to a student
	WalletTrxDebit  WalletTrxType = "debit"  // client funds moved into escrow
	WalletTrxRefund WalletTrxType = "refund" // escrow returned to the client
)

type WalletTransaction struct {
	ID          string          `json:"id"`
	UserID      int64           `json:"userId"`
	Amount      decimal.Decimal `json:"amount"`
	Type        WalletTrxType   `json:"type"`
	Description string          `json:"description"`
	PaymentID   int64           `json:"paymentId"`
	CreatedAt   time.Time       `json:"createdAt"`
}
