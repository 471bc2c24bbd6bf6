package repository

import (
	"fmt"
	"strings"

	"github.com/honeynil/FinanceService/internal/models"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildFilterQuery composes the search statement for filter. The owner is
// always constrained; every other field only when set.
func buildFilterQuery(filter models.EntryFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + entryColumns + ` FROM entries WHERE user_id = $1`)
	args := []any{filter.UserID}

	add := func(clause string, arg any) {
		args = append(args, arg)
		fmt.Fprintf(&sb, " AND "+clause, len(args))
	}

	if filter.Description != nil && *filter.Description != "" {
		add("description ILIKE $%d", "%"+likeEscaper.Replace(*filter.Description)+"%")
	}
	if filter.Month != nil {
		add("month = $%d", *filter.Month)
	}
	if filter.Year != nil {
		add("year = $%d", *filter.Year)
	}
	if filter.Type != nil {
		add("type = $%d", *filter.Type)
	}
	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}

	sb.WriteString(" ORDER BY year, month, id")
	return sb.String(), args
}
