package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahaya-relief/camp-api/internal/middleware"
	"github.com/sahaya-relief/camp-api/internal/models"
	appErrors "github.com/sahaya-relief/camp-api/pkg/errors"
	"github.com/sahaya-relief/camp-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil
	}
	return claims
}

// bindJSON decodes the body into dest, answering 400 on malformed input.
func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

func serviceUnavailable(c *gin.Context) {
	response.Error(c, appErrors.Clone(appErrors.ErrInternal, "service not configured"))
}
