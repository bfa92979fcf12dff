package services

import (
	"fmt"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/apperrors"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	portssvc "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/services"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/utils/accounting"
)

// journalValidator checks candidate lines exhaustively. It is a pure function of its inputs.
type journalValidator struct{}

// NewJournalValidator creates a new JournalValidatorSvc.
func NewJournalValidator() portssvc.JournalValidatorSvc {
	return journalValidator{}
}

var _ portssvc.JournalValidatorSvc = journalValidator{}

func (journalValidator) Validate(lines []domain.JournalEntryLine, lookup portssvc.AccountLookup) error {
	if len(lines) == 0 {
		return &apperrors.ValidationError{Violations: []apperrors.Violation{{
			Code:      apperrors.ViolationEmptyEntry,
			LineIndex: -1,
			Message:   "journal entry has no lines",
		}}}
	}

	var violations []apperrors.Violation
	for i, line := range lines {
		acc, ok := lookup(line.AccountCode)
		switch {
		case !ok:
			violations = append(violations, apperrors.Violation{
				Code:        apperrors.ViolationUnknownAccount,
				LineIndex:   i,
				AccountCode: line.AccountCode,
				Message:     fmt.Sprintf("account %s does not exist", line.AccountCode),
			})
		case acc.IsDeleted:
			violations = append(violations, apperrors.Violation{
				Code:        apperrors.ViolationInactiveAccount,
				LineIndex:   i,
				AccountCode: line.AccountCode,
				Message:     fmt.Sprintf("account %s is deleted", line.AccountCode),
			})
		case !acc.IsActive:
			violations = append(violations, apperrors.Violation{
				Code:        apperrors.ViolationInactiveAccount,
				LineIndex:   i,
				AccountCode: line.AccountCode,
				Message:     fmt.Sprintf("account %s is inactive", line.AccountCode),
			})
		}

		if reason := accounting.MalformedReason(line); reason != "" {
			violations = append(violations, apperrors.Violation{
				Code:        apperrors.ViolationMalformedLine,
				LineIndex:   i,
				AccountCode: line.AccountCode,
				Message:     reason,
			})
		}
	}

	if delta := accounting.Delta(lines); !delta.IsZero() {
		violations = append(violations, apperrors.Violation{
			Code:      apperrors.ViolationUnbalanced,
			LineIndex: -1,
			Message:   fmt.Sprintf("debits exceed credits by %s", delta.String()),
			Delta:     delta,
		})
	}

	if len(violations) > 0 {
		return &apperrors.ValidationError{Violations: violations}
	}
	return nil
}
