package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// FeedServer accepts websocket subscribers for live order events.
type FeedServer interface {
	Serve(w http.ResponseWriter, r *http.Request) error
}

func AdminFeed(feed FeedServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/feed"
		defer handlePanic(c, route)

		// The upgrader has already written a response when it fails.
		if err := feed.Serve(c.Writer, c.Request); err != nil {
			log.Printf("[%s] upgrade failed: %v", route, err)
		}
	}
}
