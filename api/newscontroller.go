package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsrag/rssfeeds"
)

// RegisterNewsRoutes registers the ingestion endpoint.
func (s *Server) RegisterNewsRoutes(r *gin.Engine) {
	r.GET("/news", s.handleGetNews)
}

// handleGetNews fetches the configured feeds, extracts full content,
// indexes everything and returns the ingested articles.
func (s *Server) handleGetNews(c *gin.Context) {
	articles, err := rssfeeds.FetchAll(s.feedURLs)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	rssfeeds.ExtractAllContent(articles)

	if err := s.indexer.IndexArticles(c.Request.Context(), articles); err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "feed retrieved successfully",
		"articles": articles,
	})
}
