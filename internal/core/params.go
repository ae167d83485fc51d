package core

import (
	"regexp"
	"strings"
)

// Params holds named parameter values for raw queries using {:name} syntax.
//
// Example:
//
//	adapter.NewQuery("SELECT * FROM {{users}} WHERE [[id]]={:id}").
//	    Bind(core.Params{"id": 1}).
//	    All(ctx)
type Params map[string]interface{}

var (
	// namedPlaceholderRegex matches named parameter placeholders {:name}.
	namedPlaceholderRegex = regexp.MustCompile(`\{:(\w+)\}`)

	// quoteRegex matches {{table}} and [[column]] quoting markers. The
	// character class allows dots for schema-prefixed identifiers.
	quoteRegex = regexp.MustCompile(`(\{\{[\w\-. ]+\}\}|\[\[[\w\-. ]+\]\])`)
)

// NewQuery creates a raw query from SQL containing named parameters {:name}
// and quoting markers {{table}} / [[column]]. The markers are rewritten to
// dialect placeholders and quoted identifiers; everything else passes
// through verbatim (the escape-hatch trust boundary).
func (a *Adapter) NewQuery(sqlText string) *Query {
	rewritten, names := a.processSQL(sqlText)
	return &Query{sql: rewritten, paramNames: names, adapter: a}
}

// Bind resolves named parameters into the positional parameter list, in
// placeholder order. A missing name surfaces as an error at execution.
func (q *Query) Bind(params Params) *Query {
	values := make([]interface{}, len(q.paramNames))
	for i, name := range q.paramNames {
		v, ok := params[name]
		if !ok {
			if q.err == nil {
				q.err = &ValidationError{Op: "Bind", Reason: "missing parameter: " + name}
			}
			return q
		}
		values[i] = v
	}
	q.params = values
	return q
}

// processSQL replaces {:name} with dialect placeholders (numbered across the
// whole statement) and quotes {{ }} / [[ ]] identifiers. Returns the
// rewritten SQL and the parameter names in order of appearance; a repeated
// name appears once per occurrence.
func (a *Adapter) processSQL(sqlText string) (string, []string) {
	var names []string
	count := 0

	result := namedPlaceholderRegex.ReplaceAllStringFunc(sqlText, func(match string) string {
		count++
		names = append(names, match[2:len(match)-1])
		return a.dialect.Placeholder(count)
	})

	result = quoteRegex.ReplaceAllStringFunc(result, func(match string) string {
		return a.quoteIdentifier(match[2 : len(match)-2])
	})

	return result, names
}

// quoteIdentifier quotes an identifier, splitting schema-prefixed names so
// each part is quoted separately ("public"."users").
func (a *Adapter) quoteIdentifier(ident string) string {
	if !strings.Contains(ident, ".") {
		return a.dialect.QuoteIdentifier(strings.TrimSpace(ident))
	}

	parts := strings.Split(ident, ".")
	quoted := make([]string, len(parts))
	for i, part := range parts {
		quoted[i] = a.dialect.QuoteIdentifier(strings.TrimSpace(part))
	}
	return strings.Join(quoted, ".")
}
