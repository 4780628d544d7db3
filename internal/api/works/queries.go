package works

import (
	"strconv"

	"portfolio-app/internal/app/http/middleware"
	"portfolio-app/internal/store"

	"github.com/gin-gonic/gin"
)

// listParams reads the artwork list query string. Unknown or malformed
// values fall back to the store defaults.
func listParams(c *gin.Context) store.ListParams {
	q := c.Query("query")
	if q == "" {
		q = c.Query("q")
	}
	return store.ListParams{
		Query:     q,
		Kind:      c.DefaultQuery("type", "all"),
		Published: c.DefaultQuery("published", "all"),
		SortBy:    c.DefaultQuery("sortBy", "created"),
		SortOrder: c.DefaultQuery("sortOrder", "desc"),
		Page:      atoiOr(c.Query("page"), store.DefaultPage),
		PageSize:  atoiOr(c.Query("pageSize"), store.DefaultPageSize),
		Viewer:    middleware.Viewer(c),
	}
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
