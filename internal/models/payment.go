package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending      PaymentStatus = "PENDING"
	PaymentHeldInEscrow PaymentStatus = "HELD_IN_ESCROW"
	PaymentReleased     PaymentStatus = "RELEASED"
	PaymentRefunded     PaymentStatus = "REFUNDED"
	PaymentFailed       PaymentStatus = "FAILED"
)

func (s PaymentStatus) Label() string {
	switch s {
	case PaymentPending:
		return "Pending"
	case PaymentHeldInEscrow:
		return "Held in Escrow"
	case PaymentReleased:
		return "Released"
	case PaymentRefunded:
		return "Refunded"
	case PaymentFailed:
		return "Failed"
	}
	return string(s)
}

func (s PaymentStatus) CSSClass() string {
	switch s {
	case PaymentHeldInEscrow:
		return "status-in-progress"
	case PaymentReleased:
		return "status-completed"
	case PaymentRefunded, PaymentFailed:
		return "status-cancelled"
	}
	return "status-pending"
}

type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "CREDIT_CARD"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodPayPal       PaymentMethod = "PAYPAL"
	MethodGCash        PaymentMethod = "GCASH"
	MethodWallet       PaymentMethod = "WALLET"
)

// CheckoutMethods are the methods offered in the payment form.
var CheckoutMethods = []PaymentMethod{MethodGCash, MethodPayPal}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	v := PaymentMethod(separators.ReplaceAllString(strings.ToUpper(strings.TrimSpace(s)), "_"))
	switch v {
	case MethodCreditCard, MethodBankTransfer, MethodPayPal, MethodGCash, MethodWallet:
		return v, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

func (m PaymentMethod) Label() string {
	switch m {
	case MethodGCash:
		return "GCash"
	case MethodPayPal:
		return "PayPal"
	case MethodCreditCard:
		return "Credit Card"
	case MethodBankTransfer:
		return "Bank Transfer"
	case MethodWallet:
		return "Wallet"
	}
	return string(m)
}

type Payment struct {
	ID              int64           `json:"id"`
	JobID           int64           `json:"jobId"`
	Amount          decimal.Decimal `json:"amount"`
	Method          PaymentMethod   `json:"paymentMethod"`
	Status          PaymentStatus   `json:"status"`
	TransactionID   string          `json:"transactionId,omitempty"`
	EscrowAccountID string          `json:"escrowAccountId,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	ReleasedAt      *time.Time      `json:"releasedAt,omitempty"`
}

func (p Payment) Held() bool { return p.Status == PaymentHeldInEscrow }
