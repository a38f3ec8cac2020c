package handlers

import (
	"github.com/gin-gonic/gin"

	"referral-commerce-service/pkg/common"
)

// respondError maps the typed error taxonomy to HTTP codes; business-rule
// violations reach the caller with their specific reason.
func respondError(c *gin.Context, err error) {
	status := common.HTTPStatus(err)
	c.JSON(status, common.NewErrorResponse(err.Error(), nil, status))
}
