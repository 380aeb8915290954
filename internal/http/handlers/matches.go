package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CidyChou/jackaroo-queen-sub001/internal/domain"
	"github.com/CidyChou/jackaroo-queen-sub001/internal/repository"
)

type MatchHandler struct {
	repo *repository.MatchRepository
}

func NewMatchHandler(repo *repository.MatchRepository) *MatchHandler {
	return &MatchHandler{repo: repo}
}

// Recent lists the latest finished matches. Without a database the list
// is empty rather than an error.
func (h *MatchHandler) Recent(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusOK, gin.H{"matches": []*domain.Match{}})
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	matches, err := h.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load matches"})
		return
	}
	if matches == nil {
		matches = []*domain.Match{}
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}
