package service

import (
	"strings"

	"github.com/honeynil/FinanceService/internal/models"
	pkgerrors "github.com/honeynil/FinanceService/pkg/errors"
)

// ValidateEntry reports the first broken rule of entry. The order of the
// checks is part of the contract: clients see exactly one message.
func ValidateEntry(entry *models.Entry) error {
	if entry == nil {
		return pkgerrors.ErrNilEntry
	}
	if strings.TrimSpace(entry.Description) == "" {
		return pkgerrors.ErrInvalidDescription
	}
	if entry.Month < 1 || entry.Month > 12 {
		return pkgerrors.ErrInvalidMonth
	}
	if entry.Year < 1000 || entry.Year > 9999 {
		return pkgerrors.ErrInvalidYear
	}
	if entry.UserID == 0 {
		return pkgerrors.ErrMissingUser
	}
	if !entry.Value.IsPositive() {
		return pkgerrors.ErrInvalidValue
	}
	if !entry.Type.Valid() {
		return pkgerrors.ErrMissingEntryType
	}
	return nil
}
