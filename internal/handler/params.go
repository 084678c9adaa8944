package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kindnest/kindnest-api/pkg/apperror"
	"github.com/kindnest/kindnest-api/pkg/validator"
)

// bindJSON binds the request body and turns binding failures into the
// standard 400 envelope with readable field messages.
func bindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return apperror.BadRequest(validator.FormatValidationError(err))
	}
	return nil
}

// parseID reads a numeric path parameter. A malformed id is a request the
// server understands but cannot process, not a missing resource.
func parseID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperror.Unprocessable("'" + raw + "' is not a valid id")
	}
	return uint(id), nil
}

// parseQueryID reads a numeric query parameter.
func parseQueryID(c *gin.Context, name string) (uint, error) {
	raw := c.Query(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperror.Unprocessable("'" + raw + "' is not a valid id")
	}
	return uint(id), nil
}

// parsePage reads the page query parameter, defaulting to the first page.
// Out-of-range values are left for the pagination layer to reject.
func parsePage(c *gin.Context) int {
	raw := c.Query("page")
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return page
}
