package prismic

import (
	"fmt"
	"strings"
)

// Predicate is a single clause of a Prismic search query.
type Predicate struct {
	op    string
	path  string
	value string
}

// At matches documents whose path equals value exactly.
func At(path, value string) Predicate {
	return Predicate{op: "at", path: path, value: value}
}

// String renders the predicate in Prismic query syntax, e.g. [at(document.type, "post")].
func (p Predicate) String() string {
	return fmt.Sprintf("[%s(%s, %q)]", p.op, p.path, p.value)
}

// encodeQuery joins predicates into the q parameter value.
func encodeQuery(predicates []Predicate) string {
	var b strings.Builder
	b.WriteByte('[')
	for _, p := range predicates {
		b.WriteString(p.String())
	}
	b.WriteByte(']')
	return b.String()
}
