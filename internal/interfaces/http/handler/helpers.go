package handler

import (
	"time"

	"github.com/gin-gonic/gin"
)

// parseAsOf reads the optional as_of query parameter. An absent parameter
// means "now". The bool is false when the parameter is present but malformed.
func parseAsOf(c *gin.Context) (time.Time, bool) {
	raw := c.Query("as_of")
	if raw == "" {
		return time.Now(), true
	}
	asOf, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return asOf, true
}
