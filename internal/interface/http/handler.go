package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/jsonplaceholder-api/pkg/apperror"
	"github.com/oksasatya/jsonplaceholder-api/pkg/validation"
)

const msgValidationFailed = "validation failed"

// bindJSON decodes the body into dst and reports failures through c.Error.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(apperror.BadRequest(msgValidationFailed, validation.ToDetails(err)))
		return false
	}
	return true
}

// paramID parses the :id path parameter. Zero and negative ids parse fine
// and simply match no row.
func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.Error(apperror.BadRequest("Validation failed (numeric string is expected)", map[string]string{"id": "must be an integer"}))
		return 0, false
	}
	return id, true
}
