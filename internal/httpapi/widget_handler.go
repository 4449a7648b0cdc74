package httpapi

import (
	"net/http"
	"strconv"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/widget"
	"github.com/gin-gonic/gin"
)

func (s *Server) widgetPosition(c *gin.Context) {
	scroll, err := strconv.Atoi(c.DefaultQuery("scroll", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scroll offset"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"position":         widget.ResolvePosition(scroll, c.Query("route")),
		"scroll_threshold": widget.ScrollThreshold,
	})
}
