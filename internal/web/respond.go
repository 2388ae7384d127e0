// Package web holds the shared presentation helpers: the error render
// used by every handler and the router middleware.
package web

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServerError terminates a request on a store or infrastructure
// failure: the error is logged with request context and the generic
// error page is rendered. No internal detail reaches the page.
func ServerError(c *gin.Context, err error) {
	log.Printf("server error: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"title": "Something went wrong",
	})
	c.Abort()
}

// NotFound renders the generic error page for a record that does not
// exist, on routes where the view has no empty state of its own.
func NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error.html", gin.H{
		"title": "Not found",
	})
	c.Abort()
}
