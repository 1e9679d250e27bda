package wallet

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uep-freelance/freelance_web/internal/models"
)

var ErrInvalidAmount = errors.New("amount must be greater than zero")

// WalletService is the demo escrow ledger. Every movement of money through
// escrow appends one entry; balances are derived from the entries.
type WalletService struct {
	mu      sync.Mutex
	entries []models.WalletTransaction
	now     func() time.Time
}

func NewWalletService() *WalletService {
	return &WalletService{now: time.Now}
}

// CreditFreelancer pays a released escrow out to the student.
func (s *WalletService) CreditFreelancer(userID int64, amount decimal.Decimal, paymentID int64, description string) error {
	return s.record(userID, amount, models.WalletTrxCredit, paymentID, description)
}

// CreditClient returns a refunded escrow to the client.
func (s *WalletService) CreditClient(userID int64, amount decimal.Decimal, paymentID int64, description string) error {
	return s.record(userID, amount, models.WalletTrxRefund, paymentID, description)
}

// DebitClient moves client funds into escrow.
func (s *WalletService) DebitClient(userID int64, amount decimal.Decimal, paymentID int64, description string) error {
	return s.record(userID, amount, models.WalletTrxDebit, paymentID, description)
}

func (s *WalletService) record(userID int64, amount decimal.Decimal, typ models.WalletTrxType, paymentID int64, description string) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%s for user %d: %w", typ, userID, ErrInvalidAmount)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, models.WalletTransaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      amount,
		Type:        typ,
		Description: description,
		PaymentID:   paymentID,
		CreatedAt:   s.now(),
	})
	return nil
}

// Earnings is the sum of escrow releases paid to userID.
func (s *WalletService) Earnings(userID int64) decimal.Decimal {
	return s.sum(func(e models.WalletTransaction) decimal.Decimal {
		if e.UserID == userID && e.Type == models.WalletTrxCredit {
			return e.Amount
		}
		return decimal.Zero
	})
}

// Spent is what userID put into escrow minus what was refunded.
func (s *WalletService) Spent(userID int64) decimal.Decimal {
	return s.sum(func(e models.WalletTransaction) decimal.Decimal {
		if e.UserID != userID {
			return decimal.Zero
		}
		switch e.Type {
		case models.WalletTrxDebit:
			return e.Amount
		case models.WalletTrxRefund:
			return e.Amount.Neg()
		}
		return decimal.Zero
	})
}

// Revenue is the total released to freelancers across the platform.
func (s *WalletService) Revenue() decimal.Decimal {
	return s.sum(func(e models.WalletTransaction) decimal.Decimal {
		if e.Type == models.WalletTrxCredit {
			return e.Amount
		}
		return decimal.Zero
	})
}

func (s *WalletService) Transactions(userID int64) []models.WalletTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.WalletTransaction
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

func (s *WalletService) sum(pick func(models.WalletTransaction) decimal.Decimal) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, e := range s.entries {
		total = total.Add(pick(e))
	}
	return total
}
