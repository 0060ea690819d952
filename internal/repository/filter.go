package repository

import (
	"strconv"
	"strings"
)

// Placeholder renders the n-th (1-based) bind parameter for a SQL dialect.
type Placeholder func(n int) string

// Dollar is the PostgreSQL placeholder style ($1, $2, ...).
func Dollar(n int) string { return "$" + strconv.Itoa(n) }

// Question is the SQLite placeholder style.
func Question(int) string { return "?" }

// GameFilter narrows a game listing. Empty fields add no predicate.
type GameFilter struct {
	// Name matches any game whose name contains it.
	Name string
	// Platform must equal the game's platform exactly.
	Platform string
}

// IsEmpty reports whether the filter would match every game.
func (f GameFilter) IsEmpty() bool {
	return f.Name == "" && f.Platform == ""
}

// Where builds the WHERE clause for f and its bind arguments. It returns
// an empty clause when f is empty.
func (f GameFilter) Where(ph Placeholder) (string, []any) {
	var clauses []string
	var args []any

	if f.Name != "" {
		args = append(args, "%"+escapeLike(f.Name)+"%")
		clauses = append(clauses, "name LIKE "+ph(len(args))+` ESCAPE '\'`)
	}
	if f.Platform != "" {
		args = append(args, f.Platform)
		clauses = append(clauses, "platform = "+ph(len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
