package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Entry struct {
	ID               int64           `json:"id"`
	Description      string          `json:"description"`
	Month            int             `json:"month"`
	Year             int             `json:"year"`
	Value            decimal.Decimal `json:"value"`
	Type             EntryType       `json:"type"`
	Status           EntryStatus     `json:"status"`
	UserID           int64           `json:"user_id"`
	RegistrationDate time.Time       `json:"registration_date"`
}

type EntryType string

const (
	TypeIncome  EntryType = "INCOME"
	TypeExpense EntryType = "EXPENSE"
)

func (t EntryType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

type EntryStatus string

const (
	StatusPending   EntryStatus = "PENDING"
	StatusConfirmed EntryStatus = "CONFIRMED"
	StatusCanceled  EntryStatus = "CANCELED"
)

func (s EntryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCanceled:
		return true
	}
	return false
}
