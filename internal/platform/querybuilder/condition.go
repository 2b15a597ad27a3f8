package querybuilder

import "strings"

// Condition renders one predicate of a WHERE clause. Conditions are joined
// with AND.
type Condition interface {
	appendSQL(w *sqlWriter)
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) appendSQL(w *sqlWriter) {
	w.WriteString(c.column)
	w.WriteString(" = ")
	w.bind(c.value)
}

type inCondition struct {
	column string
	values []any
}

func In[T any](column string, values []T) Condition {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return inCondition{column: column, values: out}
}

func (c inCondition) appendSQL(w *sqlWriter) {
	if len(c.values) == 0 {
		w.WriteString("1=0")
		return
	}

	w.WriteString(c.column)
	w.WriteString(" IN (")
	for i, v := range c.values {
		if i > 0 {
			w.WriteString(", ")
		}
		w.bind(v)
	}
	w.WriteString(")")
}

type isNullCondition struct {
	column string
	not    bool
}

func IsNull(column string) Condition {
	return isNullCondition{column: column}
}

func IsNotNull(column string) Condition {
	return isNullCondition{column: column, not: true}
}

func (c isNullCondition) appendSQL(w *sqlWriter) {
	w.WriteString(c.column)
	if c.not {
		w.WriteString(" IS NOT NULL")
		return
	}
	w.WriteString(" IS NULL")
}

type iLikeCondition struct {
	column  string
	pattern string
}

// ILikeContains matches rows whose column contains term, case-insensitively.
// LIKE metacharacters in term are escaped.
func ILikeContains(column, term string) Condition {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return iLikeCondition{column: column, pattern: "%" + escaper.Replace(term) + "%"}
}

func (c iLikeCondition) appendSQL(w *sqlWriter) {
	w.WriteString(c.column)
	w.WriteString(" ILIKE ")
	w.bind(c.pattern)
}

type exprCondition struct {
	expr string
	args []any
}

// Expr embeds a raw predicate; each ? is bound to the next arg.
func Expr(expr string, args ...any) Condition {
	return exprCondition{expr: expr, args: args}
}

func (c exprCondition) appendSQL(w *sqlWriter) {
	w.expr(c.expr, c.args)
}
