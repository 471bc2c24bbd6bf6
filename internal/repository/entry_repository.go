package repository

import (
	"context"

	"github.com/honeynil/FinanceService/internal/models"
)

type EntryRepository interface {
	Insert(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	Overwrite(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	Remove(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.Entry, error)
	FindByFilter(ctx context.Context, filter models.EntryFilter) ([]models.Entry, error)
}
