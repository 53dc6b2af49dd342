package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type responder struct{ c *gin.Context }

func (r responder) wantsJSON() bool {
	accept := strings.ToLower(r.c.GetHeader("Accept"))
	return strings.Contains(accept, "application/json")
}

func (r responder) err(status int, msg string) {
	if r.wantsJSON() {
		r.c.JSON(status, gin.H{"error": msg})
		return
	}
	r.c.String(status, msg)
}

// ok sends payload as JSON, or text as plain text.
func (r responder) ok(text string, payload gin.H) {
	if r.wantsJSON() {
		r.c.JSON(http.StatusOK, payload)
		return
	}
	r.c.String(http.StatusOK, text)
}

// formatValues writes one value per line with the shortest exact representation.
func formatValues(xs []float64) string {
	var b strings.Builder
	for i, x := range xs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
	}
	return b.String()
}
