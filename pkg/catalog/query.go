package catalog

import (
	"strings"

	"github.com/adfharrison1/go-catalog/pkg/domain"
)

const (
	// WildcardMarker is the only wildcard users get: one, at the end of the term.
	WildcardMarker = "*"

	// DefaultPageSize is the hit count when the caller gives none
	DefaultPageSize = 20

	crossFields = "cross_fields"
)

// QueryBody is a store search request body
type QueryBody struct {
	Source SourceFilter `json:"_source"`
	Query  Query        `json:"query"`
}

// SourceFilter selects which source fields each hit returns
type SourceFilter struct {
	Includes []string `json:"includes"`
}

// Query holds exactly one of its clauses
type Query struct {
	MatchAll    *MatchAll    `json:"match_all,omitempty"`
	QueryString *QueryString `json:"query_string,omitempty"`
}

type MatchAll struct{}

type QueryString struct {
	Query  string   `json:"query"`
	Type   string   `json:"type,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

// SearchOptions drives BuildQuery
type SearchOptions struct {
	// Term is the raw user search term; empty means match everything.
	Term string
	// Fields restricts which fields the term is matched against.
	Fields []string
	// ReturnFields is a comma-joined projection; empty or "*" returns all fields.
	ReturnFields string
	// Exact matches Term as a quoted phrase instead of a prefix.
	Exact bool
}

// BuildSearchBody returns match-all for an empty term and a cross-field prefix
// query otherwise.
func BuildSearchBody(term string) QueryBody {
	return BuildQuery(SearchOptions{Term: term})
}

// BuildQuery synthesizes the search body for opts.
func BuildQuery(opts SearchOptions) QueryBody {
	body := QueryBody{Source: SourceFilter{Includes: ParseFields(opts.ReturnFields)}}
	if opts.Term == "" {
		body.Query.MatchAll = &MatchAll{}
		return body
	}

	query := PrefixTerm(opts.Term)
	if opts.Exact {
		query = PhraseTerm(opts.Term)
	}
	body.Query.QueryString = &QueryString{
		Query:  query,
		Type:   crossFields,
		Fields: opts.Fields,
	}
	return body
}

// PrefixTerm strips every wildcard the user typed and appends a single
// trailing one, so "du*ne" becomes "du ne*" and "dune" becomes "dune*".
func PrefixTerm(term string) string {
	t := strings.ReplaceAll(term, WildcardMarker, " ")
	t = strings.ReplaceAll(t, " "+WildcardMarker, WildcardMarker+" ")
	return t + WildcardMarker
}

// PhraseTerm quotes term as an exact phrase, dropping quotes and wildcards.
func PhraseTerm(term string) string {
	t := strings.ReplaceAll(term, `"`, "")
	t = strings.ReplaceAll(t, WildcardMarker, "")
	return `"` + strings.TrimSpace(t) + `"`
}

// ParseFields splits a comma-joined field list. Empty input means every field.
func ParseFields(fields string) []string {
	var out []string
	for _, f := range strings.Split(fields, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return []string{WildcardMarker}
	}
	return out
}

// Page is a from/count window over search hits
type Page struct {
	From  int `json:"from"`
	Count int `json:"count"`
}

// NewPage applies the defaults (from 0, count 20) to optional caller values.
// Values are passed through unmodified; negatives are rejected, and counts
// above maxCount are rejected when maxCount > 0.
func NewPage(from, count *int, maxCount int) (Page, error) {
	page := Page{From: 0, Count: DefaultPageSize}
	if from != nil {
		page.From = *from
	}
	if count != nil {
		page.Count = *count
	}
	if page.From < 0 {
		return Page{}, domain.BadRequest("from cannot be negative")
	}
	if page.Count < 0 {
		return Page{}, domain.BadRequest("count cannot be negative")
	}
	if maxCount > 0 && page.Count > maxCount {
		return Page{}, domain.BadRequest("count exceeds the maximum page size")
	}
	return page, nil
}
