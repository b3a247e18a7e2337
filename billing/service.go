// Package billing composes the crypto, credential, and ledger layers into
// the two operations the gateway needs: a pre-flight credit check and a
// post-flight deduction. Billing is deliberately fail-open: a successful
// user-facing operation is never retroactively failed by a debit error.
package billing

import (
	"context"
	"fmt"

	"github.com/Laisky/zap"

	"github.com/kortix-ai/gateway/common/config"
	"github.com/kortix-ai/gateway/common/logger"
	"github.com/kortix-ai/gateway/common/metrics"
	"github.com/kortix-ai/gateway/model"
)

// DefaultMinimumCredits gates billable requests when callers pass no
// explicit minimum.
const DefaultMinimumCredits = 0.01

// Bypass reasons recorded on skipped debits.
const (
	ReasonTestToken = "test_token"
	ReasonDevMode   = "development_mode"
)

// CheckResult is the outcome of a credit pre-check. Balance is nil when the
// ledger could not report one (test token, dev mode, or fail-open).
type CheckResult struct {
	HasCredits bool
	Balance    *float64
	Message    string
}

// DebitOutcome is the outcome of a deduction attempt. Success=false never
// propagates as a request failure.
type DebitOutcome struct {
	Success       bool
	Amount        float64
	NewBalance    *float64
	TransactionID string
	SkippedReason string
}

// Service routes billing operations to the direct ledger when configured,
// else to the HTTP fallback. Both may be absent in bootstrap deployments.
type Service struct {
	fallback *HTTPLedger
}

// NewService builds the billing service. fallback may be nil.
func NewService(fallback *HTTPLedger) *Service {
	return &Service{fallback: fallback}
}

// CheckCredits reports whether the account holds at least min credits.
// Short-circuits, in order: test account, dev mode, then the real ledger.
func (s *Service) CheckCredits(ctx context.Context, accountID string, min float64) CheckResult {
	if min <= 0 {
		min = DefaultMinimumCredits
	}

	if accountID == config.TestAccountID {
		return CheckResult{HasCredits: true, Message: "test account"}
	}
	if config.IsDevMode() {
		return CheckResult{HasCredits: true, Message: "development mode"}
	}

	if model.StoreEnabled() {
		balance, err := model.GetBalance(ctx, accountID)
		if err != nil {
			// Same fail-open posture as the HTTP path: a ledger outage
			// must not gate user traffic.
			logger.Logger.Warn("direct balance check failed open",
				zap.String("account", accountID),
				zap.Error(err))
			return CheckResult{HasCredits: true, Message: "balance check unavailable"}
		}
		if balance == nil {
			return CheckResult{HasCredits: false, Message: "Insufficient credits: no credit account"}
		}
		total := balance.Balance
		if total < min {
			return CheckResult{
				HasCredits: false,
				Balance:    &total,
				Message:    fmt.Sprintf("Insufficient credits: %.4f available, %.4f required", total, min),
			}
		}
		return CheckResult{HasCredits: true, Balance: &total}
	}

	if s.fallback != nil {
		balance, failedOpen := s.fallback.GetBalance(ctx, accountID)
		if failedOpen {
			return CheckResult{HasCredits: true, Message: "balance check unavailable"}
		}
		if *balance < min {
			return CheckResult{
				HasCredits: false,
				Balance:    balance,
				Message:    fmt.Sprintf("Insufficient credits: %.4f available, %.4f required", *balance, min),
			}
		}
		return CheckResult{HasCredits: true, Balance: balance}
	}

	logger.Logger.Warn("no ledger configured; credit check passes open",
		zap.String("account", accountID))
	return CheckResult{HasCredits: true, Message: "no ledger configured"}
}

// DeductToolCredits debits the cost of one tool invocation, derived from the
// tool pricing table.
func (s *Service) DeductToolCredits(ctx context.Context, accountID, tool string, resultCount int, sessionID string) DebitOutcome {
	amount := ToolCost(tool, resultCount)
	return s.deduct(ctx, accountID, amount, HumanizeTool(tool), sessionID)
}

// DeductLLMCredits debits a precomputed LLM cost. The description encodes
// the model and token counts for ledger-side auditing.
func (s *Service) DeductLLMCredits(ctx context.Context, accountID string, amount float64, modelName string, inputTokens, outputTokens int, sessionID string) DebitOutcome {
	description := fmt.Sprintf("LLM: %s (%d/%d tokens)", modelName, inputTokens, outputTokens)
	return s.deduct(ctx, accountID, amount, description, sessionID)
}

func (s *Service) deduct(ctx context.Context, accountID string, amount float64, description, sessionID string) DebitOutcome {
	if accountID == config.TestAccountID {
		metrics.RecordDebit("skipped")
		return DebitOutcome{Success: true, SkippedReason: ReasonTestToken}
	}
	if config.IsDevMode() {
		metrics.RecordDebit("skipped")
		return DebitOutcome{Success: true, SkippedReason: ReasonDevMode}
	}
	if amount <= 0 {
		metrics.RecordDebit("skipped")
		return DebitOutcome{Success: true, Amount: 0}
	}

	if model.StoreEnabled() {
		result, err := model.AtomicDebit(ctx, accountID, amount, description, sessionID)
		if err != nil {
			metrics.RecordDebit("error")
			logger.Logger.Error("direct ledger debit failed",
				zap.String("account", accountID),
				zap.Float64("amount", amount),
				zap.String("description", description),
				zap.Error(err))
			return DebitOutcome{Success: false, Amount: amount}
		}
		metrics.RecordDebit("success")
		newBalance := result.NewBalance
		return DebitOutcome{
			Success:       true,
			Amount:        result.Deducted,
			NewBalance:    &newBalance,
			TransactionID: result.TransactionID,
		}
	}

	if s.fallback != nil {
		outcome, err := s.fallback.Debit(ctx, accountID, amount, description, sessionID)
		if err != nil {
			metrics.RecordDebit("error")
			logger.Logger.Error("fallback ledger debit failed",
				zap.String("account", accountID),
				zap.Float64("amount", amount),
				zap.String("description", description),
				zap.Error(err))
			return DebitOutcome{Success: false, Amount: amount}
		}
		metrics.RecordDebit("success")
		return *outcome
	}

	metrics.RecordDebit("skipped")
	logger.Logger.Warn("no ledger configured; debit skipped",
		zap.String("account", accountID),
		zap.Float64("amount", amount))
	return DebitOutcome{Success: true, Amount: 0, SkippedReason: "no_ledger"}
}
