package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jmylchreest/socialscout/internal/output"
	"github.com/jmylchreest/socialscout/internal/scraper"
)

const missingQueryMessage = "Falta parámetro 'q'"

type searchHandler struct {
	searcher Searcher
	creator  string
	log      *slog.Logger
}

// handle serves GET /<platformID>?q=<keyword>.
func (h *searchHandler) handle(platformID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		keyword := strings.TrimSpace(c.Query("q"))
		if keyword == "" {
			h.missingQuery(c)
			return
		}

		table, err := h.searcher.Search(c.Request.Context(), platformID, keyword)
		if errors.Is(err, scraper.ErrEmptyKeyword) {
			h.missingQuery(c)
			return
		}
		if err != nil {
			failed(c, err.Error())
			return
		}

		c.JSON(http.StatusOK, output.Success(table))
	}
}

func (h *searchHandler) missingQuery(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status":  "error",
		"mensaje": missingQueryMessage,
		"creador": h.creator,
	})
}

// failed writes the 500 envelope.
func failed(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error":  message,
		"status": "failed",
	})
}
