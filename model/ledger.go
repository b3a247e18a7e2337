package model

import (
	"context"

	"github.com/Laisky/errors/v2"
	"gorm.io/gorm"
)

// Typed debit failures. Anything else is a plain wrapped error.
var (
	ErrInsufficient    = errors.New("insufficient credits")
	ErrAccountNotFound = errors.New("credit account not found")
)

// CreditBalance is the point-in-time balance of one account. Values are
// fiat-denominated and never cached beyond the call that fetched them.
type CreditBalance struct {
	Balance            float64 `json:"balance" gorm:"column:balance"`
	ExpiringCredits    float64 `json:"expiring_credits" gorm:"column:expiring_credits"`
	NonExpiringCredits float64 `json:"non_expiring_credits" gorm:"column:non_expiring_credits"`
	DailyBalance       float64 `json:"daily_balance" gorm:"column:daily_balance"`
}

// DebitResult is the outcome of a successful atomic debit.
type DebitResult struct {
	Deducted      float64
	NewBalance    float64
	TransactionID string
}

// atomicDebitRow mirrors the record returned by the atomic_use_credits
// stored procedure.
type atomicDebitRow struct {
	Success        bool    `gorm:"column:success"`
	AmountDeducted float64 `gorm:"column:amount_deducted"`
	NewTotal       float64 `gorm:"column:new_total"`
	TransactionID  string  `gorm:"column:transaction_id"`
	ErrorMessage   string  `gorm:"column:error"`
}

// GetBalance returns the account's credit balance, or (nil, nil) when the
// account has no ledger row.
func GetBalance(ctx context.Context, accountID string) (*CreditBalance, error) {
	if DB == nil {
		return nil, errors.New("ledger not configured")
	}

	var balance CreditBalance
	err := DB.WithContext(ctx).
		Table("credit_accounts").
		Select("balance, expiring_credits, non_expiring_credits, daily_balance").
		Where("account_id = ?", accountID).
		Take(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "query credit balance")
	}

	return &balance, nil
}

// AtomicDebit deducts amount from the account through the atomic_use_credits
// stored procedure. Serialization against concurrent debits is the
// procedure's contract; the adapter adds none. Failures map onto
// ErrInsufficient / ErrAccountNotFound where the procedure reports them.
func AtomicDebit(ctx context.Context, accountID string, amount float64, description, sessionID string) (*DebitResult, error) {
	if DB == nil {
		return nil, errors.New("ledger not configured")
	}

	var row atomicDebitRow
	err := DB.WithContext(ctx).
		Raw("SELECT * FROM atomic_use_credits(?, ?, ?, ?, NULL)",
			accountID, amount, description, nullable(sessionID)).
		Scan(&row).Error
	if err != nil {
		return nil, errors.Wrap(err, "call atomic_use_credits")
	}

	if !row.Success {
		switch row.ErrorMessage {
		case "insufficient_credits":
			return nil, ErrInsufficient
		case "account_not_found":
			return nil, ErrAccountNotFound
		default:
			return nil, errors.Errorf("atomic debit failed: %s", row.ErrorMessage)
		}
	}

	return &DebitResult{
		Deducted:      row.AmountDeducted,
		NewBalance:    row.NewTotal,
		TransactionID: row.TransactionID,
	}, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
