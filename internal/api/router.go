package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UIPrefix is where the HTML report pages are mounted.
const UIPrefix = "/ui"

// NewRouter builds the gin engine: JSON API, health check and, when uiHandler
// is non-nil, the report pages under UIPrefix.
func NewRouter(handler *ComparisonHandler, uiHandler http.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	handler.RegisterRoutes(r)

	if uiHandler != nil {
		ui := gin.WrapH(http.StripPrefix(UIPrefix, uiHandler))
		r.GET(UIPrefix+"/*path", ui)
		r.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusFound, UIPrefix+"/")
		})
	}
	return r
}
