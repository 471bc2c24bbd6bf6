package repository

import (
	"testing"

	"github.com/honeynil/FinanceService/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildFilterQuery(t *testing.T) {
	base := `SELECT ` + entryColumns + ` FROM entries WHERE user_id = $1`
	desc := "50%_off"
	month, year := 3, 2024
	typ := models.TypeExpense
	status := models.StatusCanceled
	empty := ""

	tests := []struct {
		name      string
		filter    models.EntryFilter
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "owner only",
			filter:    models.EntryFilter{UserID: 1},
			wantQuery: base + ` ORDER BY year, month, id`,
			wantArgs:  []any{int64(1)},
		},
		{
			name:      "empty description is ignored",
			filter:    models.EntryFilter{UserID: 1, Description: &empty},
			wantQuery: base + ` ORDER BY year, month, id`,
			wantArgs:  []any{int64(1)},
		},
		{
			name:      "description is escaped",
			filter:    models.EntryFilter{UserID: 1, Description: &desc},
			wantQuery: base + ` AND description ILIKE $2 ORDER BY year, month, id`,
			wantArgs:  []any{int64(1), `%50\%\_off%`},
		},
		{
			name:      "every field",
			filter:    models.EntryFilter{UserID: 2, Month: &month, Year: &year, Type: &typ, Status: &status},
			wantQuery: base + ` AND month = $2 AND year = $3 AND type = $4 AND status = $5 ORDER BY year, month, id`,
			wantArgs:  []any{int64(2), 3, 2024, models.TypeExpense, models.StatusCanceled},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildFilterQuery(tt.filter)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
