package server

import (
	"shayarihub/internal/models"
	"shayarihub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Search handles GET /api/search
// @Summary Search shayaris
// @Description Full-text search over public shayaris with author and date filters.
// @Description Sparse results carry "did you mean" title suggestions.
// @Tags search
// @Produce json
// @Param q query string false "Search text"
// @Param author query string false "Author username fragment"
// @Param dateFrom query string false "Earliest creation day (YYYY-MM-DD)"
// @Param dateTo query string false "Latest creation day, inclusive (YYYY-MM-DD)"
// @Param sortBy query string false "relevance, recent or popular"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} models.SearchResult
// @Failure 400 {object} models.ErrorResponse
// @Router /search [get]
func (s *Server) Search(c *fiber.Ctx) error {
	criteria, err := service.ParseSearchParams(service.SearchParams{
		Query:    c.Query("q"),
		Author:   c.Query("author"),
		DateFrom: c.Query("dateFrom"),
		DateTo:   c.Query("dateTo"),
		SortBy:   c.Query("sortBy"),
		Page:     c.Query("page"),
		Limit:    c.Query("limit"),
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	result, err := s.searchService.Search(c.UserContext(), criteria)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(result)
}

// SearchSuggestions handles GET /api/search/suggestions
// @Summary Typeahead suggestions
// @Description Title and author suggestions for a prefix of at least two characters.
// @Tags search
// @Produce json
// @Param q query string true "Prefix"
// @Param type query string false "titles, authors or all" default(all)
// @Success 200 {object} object{suggestions=[]models.Suggestion}
// @Router /search/suggestions [get]
func (s *Server) SearchSuggestions(c *fiber.Ctx) error {
	suggestions, err := s.searchService.Suggest(c.UserContext(), c.Query("q"),
		service.ParseSuggestionKind(c.Query("type")))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"suggestions": suggestions})
}

// ListShayaris handles GET /api/shayaris
// @Summary Browse shayaris
// @Description Public feed, or one author's posts when userId is set. Authors
// @Description may list their own private posts with visibility=all or private.
// @Tags shayaris
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param userId query int false "Author id"
// @Param visibility query string false "all, public or private (own posts only)"
// @Success 200 {object} models.ShayariPage
// @Failure 400 {object} models.ErrorResponse
// @Router /shayaris [get]
func (s *Server) ListShayaris(c *fiber.Ctx) error {
	var authorID *uint
	if raw := c.Query("userId"); raw != "" {
		id := c.QueryInt("userId", 0)
		if id <= 0 {
			return mapServiceError(c, models.NewValidationError("Invalid user ID"))
		}
		uid := uint(id)
		authorID = &uid
	}

	page, limit := queryPage(c)
	filter := service.BrowseFilter(viewerID(c), authorID, c.Query("visibility"))
	result, err := s.searchService.Browse(c.UserContext(), filter, page, limit)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(result)
}
