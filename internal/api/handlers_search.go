// handlers_search.go - Location search handlers
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tilewx/backend/internal/geocoding"
)

// SearchHandlerImpl implements the SearchHandler interface
type SearchHandlerImpl struct {
	search Searcher
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search Searcher) SearchHandler {
	return &SearchHandlerImpl{search: search}
}

// HandleSearch returns up to five candidates for ?q=. Short queries return
// an empty list rather than an error.
func (h *SearchHandlerImpl) HandleSearch(c echo.Context) error {
	query := c.QueryParam("q")

	results, err := h.search.Search(c.Request().Context(), query)
	if err != nil {
		var searchErr *geocoding.SearchFailedError
		if errors.As(err, &searchErr) {
			return NewUpstreamError("SEARCH_FAILED", "location search failed", err)
		}
		return NewUpstreamError("SEARCH_FAILED", "location search unavailable", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": results,
	})
}
