package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/pawfectpets/pawfect-api/internal/httperr"
)

// paramID reads a positive numeric path parameter, answering 400 otherwise.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := cast.ToUintE(c.Param(name))
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid ID")
		return 0, false
	}
	return id, true
}
