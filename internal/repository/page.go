package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Page bounds a list query. A non-positive Limit returns every row.
type Page struct {
	Limit  int
	Offset int
}

// apply appends LIMIT/OFFSET placeholders starting at argCount.
func (p Page) apply(query string, args []any, argCount int) (string, []any) {
	if p.Limit <= 0 {
		return query, args
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
	return query, append(args, p.Limit, p.Offset)
}

// countPastEnd returns total unchanged unless an offset page came back empty.
// COUNT(*) OVER() only rides on returned rows, so that case counts the
// unpaginated query instead.
func countPastEnd(ctx context.Context, db *sql.DB, page Page, got, total int, unpaged string, args []any) (int, error) {
	if got > 0 || page.Limit <= 0 || page.Offset <= 0 {
		return total, nil
	}
	query := `SELECT COUNT(*) FROM (` + unpaged + `) AS unpaged`
	if err := db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("counting rows past the last page: %w", err)
	}
	return total, nil
}

type scanner interface {
	Scan(dest ...any) error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchPattern matches s as a literal substring in an ILIKE ... ESCAPE '\' clause.
func searchPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
