package service

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"shayarihub/internal/cache"
	"shayarihub/internal/models"
	"shayarihub/internal/observability"
	"shayarihub/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 100

	// MaxPage keeps (page-1)*limit well inside an int32 offset.
	MaxPage = 1 << 20

	// sparseResults is the page size under which did-you-mean titles are offered.
	sparseResults      = 5
	suggestionPool     = 5
	maxSuggestions     = 3
	typeaheadMinPrefix = 2
	typeaheadPerKind   = 5
	maxTypeahead       = 8
)

// SearchService filters, ranks and paginates public shayaris.
type SearchService struct {
	shayaris repository.ShayariRepository
	users    repository.UserRepository
	store    *cache.Store
}

func NewSearchService(shayaris repository.ShayariRepository, users repository.UserRepository, store *cache.Store) *SearchService {
	return &SearchService{shayaris: shayaris, users: users, store: store}
}

// SearchParams is the raw query string form of SearchCriteria.
type SearchParams struct {
	Query    string
	Author   string
	DateFrom string
	DateTo   string
	SortBy   string
	Page     string
	Limit    string
}

// ParseSearchParams converts raw parameters into criteria. Malformed dates
// are rejected; malformed paging falls back to the defaults.
func ParseSearchParams(p SearchParams) (models.SearchCriteria, error) {
	c := models.SearchCriteria{
		Query:  strings.TrimSpace(p.Query),
		Author: strings.TrimSpace(p.Author),
		SortBy: models.SortMode(strings.ToLower(strings.TrimSpace(p.SortBy))),
	}
	c.Page, _ = strconv.Atoi(p.Page)
	c.Limit, _ = strconv.Atoi(p.Limit)

	if p.DateFrom != "" {
		t, err := parseDay(p.DateFrom)
		if err != nil {
			return c, models.NewValidationError("Invalid dateFrom")
		}
		c.DateFrom = &t
	}
	if p.DateTo != "" {
		t, err := parseDay(p.DateTo)
		if err != nil {
			return c, models.NewValidationError("Invalid dateTo")
		}
		end := t.Add(24*time.Hour - time.Millisecond)
		c.DateTo = &end
	}
	return c, nil
}

// parseDay returns UTC midnight of the day named by s.
func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, err
		}
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// NormalizePaging applies the default page and limit bounds.
func NormalizePaging(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}
	return page, limit
}

func (s *SearchService) Search(ctx context.Context, c models.SearchCriteria) (*models.SearchResult, error) {
	c.Page, c.Limit = NormalizePaging(c.Page, c.Limit, DefaultSearchLimit)
	if c.SortBy == "" {
		c.SortBy = models.SortRelevance
	}

	span, ctx := observability.NewSpan(ctx, "search.query",
		attribute.String("search.sort", string(c.SortBy)),
		attribute.Bool("search.has_query", c.Query != ""),
		attribute.Bool("search.has_author", c.Author != ""),
	)
	defer span.End()
	observability.SearchRequests.WithLabelValues(string(c.SortBy), strconv.FormatBool(c.Query != "")).Inc()

	filter := models.ShayariFilter{
		Query:      c.Query,
		Visibility: models.VisibilityPublic,
		CreatedGTE: c.DateFrom,
		CreatedLTE: c.DateTo,
	}

	if c.Author != "" {
		author, err := s.users.FindFirstByUsernameContains(ctx, c.Author)
		if err != nil {
			span.SetError(err)
			return nil, err
		}
		if author == nil {
			return &models.SearchResult{
				Shayaris:    []models.Shayari{},
				Pagination:  models.NewPagination(1, c.Limit, 0),
				Suggestions: []string{},
			}, nil
		}
		filter.AuthorID = &author.ID
	}

	shayaris, total, err := s.shayaris.Find(ctx, filter, c.SortBy, c.Page, c.Limit)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(attribute.Int64("search.total", total))

	result := &models.SearchResult{
		Shayaris:    shayaris,
		Pagination:  models.NewPagination(c.Page, c.Limit, total),
		Suggestions: []string{},
	}
	if c.Query != "" && len(shayaris) < sparseResults {
		suggestions, err := s.didYouMean(ctx, c.Query)
		if err != nil {
			span.SetError(err)
			return nil, err
		}
		result.Suggestions = suggestions
		if len(suggestions) > 0 {
			observability.SearchSuggestionsServed.Inc()
		}
	}
	return result, nil
}

// Browse lists shayaris without scoring, most liked first.
func (s *SearchService) Browse(ctx context.Context, filter models.ShayariFilter, page, limit int) (*models.ShayariPage, error) {
	page, limit = NormalizePaging(page, limit, DefaultSearchLimit)
	filter.Query = ""
	shayaris, total, err := s.shayaris.Find(ctx, filter, models.SortPopular, page, limit)
	if err != nil {
		return nil, err
	}
	return &models.ShayariPage{Shayaris: shayaris, Pagination: models.NewPagination(page, limit, total)}, nil
}

// didYouMean looks up titles matching a shortened form of query.
func (s *SearchService) didYouMean(ctx context.Context, query string) ([]string, error) {
	titles, err := s.shayaris.MatchingTitles(ctx, truncateQuery(query), suggestionPool)
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, title := range titles {
		if strings.EqualFold(title, query) {
			continue
		}
		out = append(out, title)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out, nil
}

// truncateQuery drops the last two runes, keeping at least one.
func truncateQuery(q string) string {
	runes := []rune(q)
	n := len(runes) - 2
	if n < 1 {
		n = 1
	}
	if n > len(runes) {
		n = len(runes)
	}
	return string(runes[:n])
}

// ParseSuggestionKind maps unknown values onto SuggestAll.
func ParseSuggestionKind(s string) models.SuggestionKind {
	switch k := models.SuggestionKind(strings.ToLower(s)); k {
	case models.SuggestTitles, models.SuggestAuthors:
		return k
	default:
		return models.SuggestAll
	}
}

// Suggest is the typeahead lookup. Results are cached per kind and prefix.
func (s *SearchService) Suggest(ctx context.Context, prefix string, kind models.SuggestionKind) ([]models.Suggestion, error) {
	prefix = strings.TrimSpace(prefix)
	if utf8.RuneCountInString(prefix) < typeaheadMinPrefix {
		return []models.Suggestion{}, nil
	}
	kind = ParseSuggestionKind(string(kind))

	var out []models.Suggestion
	hit, err := s.store.Aside(ctx, cache.TypeaheadKey(string(kind), prefix), &out, cache.TypeaheadTTL, func() error {
		var ferr error
		out, ferr = s.lookupSuggestions(ctx, prefix, kind)
		return ferr
	})
	if err != nil {
		return nil, err
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	observability.TypeaheadLookups.WithLabelValues(string(kind), outcome).Inc()
	if out == nil {
		out = []models.Suggestion{}
	}
	return out, nil
}

func (s *SearchService) lookupSuggestions(ctx context.Context, prefix string, kind models.SuggestionKind) ([]models.Suggestion, error) {
	var all []models.Suggestion
	if kind != models.SuggestAuthors {
		rows, err := s.shayaris.TitlesContaining(ctx, prefix, typeaheadPerKind)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			all = append(all, models.Suggestion{Type: "title", Text: row.Title, Value: row.Title})
		}
	}
	if kind != models.SuggestTitles {
		users, err := s.users.SuggestUsernames(ctx, prefix, typeaheadPerKind)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			sg := models.Suggestion{Type: "author", Text: u.Username, Value: u.Username}
			if u.ProfilePhoto != "" {
				photo := u.ProfilePhoto
				sg.Avatar = &photo
			}
			all = append(all, sg)
		}
	}

	seen := make(map[string]struct{}, len(all))
	out := make([]models.Suggestion, 0, maxTypeahead)
	for _, sg := range all {
		key := sg.Type + "\x00" + sg.Text
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, sg)
		if len(out) == maxTypeahead {
			break
		}
	}
	return out, nil
}
