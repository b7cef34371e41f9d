package models

import "time"

// SortMode selects the ordering of search results.
type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortRecent    SortMode = "recent"
	SortPopular   SortMode = "popular"
	SortOldest    SortMode = "oldest"
)

// SearchCriteria is the typed filter for the search engine. Zero values mean
// "not set".
type SearchCriteria struct {
	Query    string
	Author   string
	DateFrom *time.Time
	DateTo   *time.Time
	SortBy   SortMode
	Page     int
	Limit    int
}

// ShayariFilter is the resolved predicate set handed to the repository.
type ShayariFilter struct {
	Query      string
	AuthorID   *uint
	Visibility Visibility
	CreatedGTE *time.Time
	CreatedLTE *time.Time
}

// Pagination describes one page of an offset/limit listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination computes the page count for total items.
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// ShayariPage is the response envelope shared by search and browse.
type ShayariPage struct {
	Shayaris   []Shayari  `json:"shayaris"`
	Pagination Pagination `json:"pagination"`
}

// SearchResult always carries a suggestions array, possibly empty.
type SearchResult struct {
	Shayaris    []Shayari  `json:"shayaris"`
	Pagination  Pagination `json:"pagination"`
	Suggestions []string   `json:"suggestions"`
}

// SuggestionKind restricts typeahead lookups.
type SuggestionKind string

const (
	SuggestTitles  SuggestionKind = "titles"
	SuggestAuthors SuggestionKind = "authors"
	SuggestAll     SuggestionKind = "all"
)

// Suggestion is a single typeahead entry.
type Suggestion struct {
	Type   string  `json:"type"`
	Text   string  `json:"text"`
	Value  string  `json:"value"`
	Avatar *string `json:"avatar,omitempty"`
}
