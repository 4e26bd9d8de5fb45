package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/filmvault/internal/server/models"
	"github.com/gin-gonic/gin"
)

// favoriteRequest uses the field names of OMDb search results so the page can
// post a search hit as is.
type favoriteRequest struct {
	ImdbID string `json:"imdbID"`
	Title  string `json:"Title"`
	Poster string `json:"Poster"`
	Year   string `json:"Year"`
	Type   string `json:"Type"`
}

var errNoClaims = errors.New("claims missing on protected route")

func (s *HTTPServer) listFavorites(c *gin.Context) {
	claims, ok := ClaimsFrom(c)
	if !ok {
		writeError(c, s.logger, errNoClaims)
		return
	}

	favs, err := s.favorites.List(c.Request.Context(), claims.UserID)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, favs)
}

func (s *HTTPServer) saveFavorite(c *gin.Context) {
	claims, ok := ClaimsFrom(c)
	if !ok {
		writeError(c, s.logger, errNoClaims)
		return
	}

	var req favoriteRequest
	_ = c.ShouldBindJSON(&req)

	fav, err := s.favorites.Save(c.Request.Context(), models.Favorite{
		UserID: claims.UserID,
		ImdbID: req.ImdbID,
		Title:  req.Title,
		Poster: req.Poster,
		Year:   req.Year,
		Type:   req.Type,
	})
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, fav)
}

func (s *HTTPServer) deleteFavorite(c *gin.Context) {
	claims, ok := ClaimsFrom(c)
	if !ok {
		writeError(c, s.logger, errNoClaims)
		return
	}

	if err := s.favorites.Remove(c.Request.Context(), claims.UserID, c.Query("imdbID")); err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
