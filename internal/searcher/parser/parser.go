// Package parser turns a free-text query line into an ordered plan of typed
// terms. The grammar is a flat conjunction: whitespace-separated terms, each
// optionally prefixed with ORG:, PERSON: or - (exclusion).
package parser

import (
	"strings"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/tokenizer"
)

const (
	orgPrefix    = "ORG:"
	personPrefix = "PERSON:"
	notPrefix    = "-"
)

type TermKind int

const (
	KindWord TermKind = iota
	KindNegated
	KindPerson
	KindOrganization
)

func (k TermKind) String() string {
	switch k {
	case KindNegated:
		return "not"
	case KindPerson:
		return "person"
	case KindOrganization:
		return "org"
	default:
		return "word"
	}
}

// MarshalText lets plans be logged and cached by kind name.
func (k TermKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *TermKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "not":
		*k = KindNegated
	case "person":
		*k = KindPerson
	case "org":
		*k = KindOrganization
	default:
		*k = KindWord
	}
	return nil
}

// Term is one classified query term. Value is the lookup key: the normalized
// word for word terms, the literal remainder for entity terms.
type Term struct {
	Kind  TermKind `json:"kind"`
	Raw   string   `json:"raw"`
	Value string   `json:"value"`
}

type QueryPlan struct {
	RawQuery string
	Terms    []Term
}

// Empty reports whether the plan has no terms to evaluate.
func (p *QueryPlan) Empty() bool {
	return len(p.Terms) == 0
}

// Key is a canonical form of the plan: equal keys evaluate identically.
func (p *QueryPlan) Key() string {
	var b strings.Builder
	for i, t := range p.Terms {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Kind.String())
		b.WriteByte('=')
		b.WriteString(t.Value)
	}
	return b.String()
}

// Parse classifies every whitespace-separated term of query in order. Word
// terms are normalized with n; entity names are kept literally.
func Parse(query string, n *tokenizer.Normalizer) *QueryPlan {
	plan := &QueryPlan{RawQuery: query}
	for _, raw := range strings.Fields(query) {
		plan.Terms = append(plan.Terms, classify(raw, n))
	}
	return plan
}

func classify(raw string, n *tokenizer.Normalizer) Term {
	switch {
	case strings.HasPrefix(raw, orgPrefix):
		return Term{Kind: KindOrganization, Raw: raw, Value: raw[len(orgPrefix):]}
	case strings.HasPrefix(raw, personPrefix):
		return Term{Kind: KindPerson, Raw: raw, Value: raw[len(personPrefix):]}
	case strings.HasPrefix(raw, notPrefix):
		return Term{Kind: KindNegated, Raw: raw, Value: n.NormalizeTerm(raw[len(notPrefix):])}
	default:
		return Term{Kind: KindWord, Raw: raw, Value: n.NormalizeTerm(raw)}
	}
}
