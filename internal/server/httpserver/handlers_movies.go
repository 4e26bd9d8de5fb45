package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/filmvault/internal/common"
	"github.com/gin-gonic/gin"
)

var emptySearch = json.RawMessage(`{"Search":[],"totalResults":"0"}`)

func (s *HTTPServer) searchMovies(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.Data(http.StatusOK, "application/json; charset=utf-8", emptySearch)
		return
	}

	raw, err := s.catalog.Search(c.Request.Context(), q)
	s.countCatalog("search", err)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

func (s *HTTPServer) movieByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("imdbID"))
	if id == "" {
		writeError(c, s.logger, common.ErrMissingFields)
		return
	}

	raw, err := s.catalog.ByID(c.Request.Context(), id)
	s.countCatalog("by_id", err)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

func (s *HTTPServer) countCatalog(kind string, err error) {
	if s.metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.metrics.CatalogRequests.WithLabelValues(kind, result).Inc()
}
