package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RegisterStatic serves the client UI from dir for every GET/HEAD request
// no route matched. Unknown /api/ paths get a JSON 404 instead.
func RegisterStatic(r *gin.Engine, dir string) {
	files := http.FileServer(gin.Dir(dir, false))
	r.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Status(http.StatusNotFound)
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	})
}
