package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"referral-commerce-service/internal/services"
	"referral-commerce-service/pkg/common"
)

type ReferralHandler struct {
	Referral   *services.ReferralService
	Commission *services.CommissionService
}

func NewReferralHandler(referral *services.ReferralService, commission *services.CommissionService) *ReferralHandler {
	return &ReferralHandler{Referral: referral, Commission: commission}
}

func (h *ReferralHandler) Uplines(c *gin.Context) {
	userId, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid user id", nil, http.StatusBadRequest))
		return
	}

	edges, err := h.Referral.Uplines(userId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(edges, "Uplines fetched"))
}

func (h *ReferralHandler) Downlines(c *gin.Context) {
	userId, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid user id", nil, http.StatusBadRequest))
		return
	}
	level, _ := strconv.Atoi(c.Query("level"))

	edges, err := h.Referral.Downlines(userId, level)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(edges, "Downlines fetched"))
}

func (h *ReferralHandler) Team(c *gin.Context) {
	userId, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid user id", nil, http.StatusBadRequest))
		return
	}

	summary, err := h.Referral.TeamSummary(userId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(summary, "Team summary fetched"))
}

func (h *ReferralHandler) Earnings(c *gin.Context) {
	userId, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid user id", nil, http.StatusBadRequest))
		return
	}

	summary, err := h.Commission.Earnings(userId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(summary, "Earnings fetched"))
}

func (h *ReferralHandler) ListDistributions(c *gin.Context) {
	uplineId, _ := strconv.Atoi(c.Query("upline_id"))
	orderId, _ := strconv.Atoi(c.Query("order_id"))
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.Commission.ListDistributions(services.ListDistributionsDTO{
		UplineId: uplineId,
		OrderId:  orderId,
		Status:   c.Query("status"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ReferralHandler) ApproveDistribution(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid distribution id", nil, http.StatusBadRequest))
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	dist, err := h.Commission.Approve(id, req.Reviewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(dist, "Commission approved"))
}

func (h *ReferralHandler) RejectDistribution(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid distribution id", nil, http.StatusBadRequest))
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	dist, err := h.Commission.Reject(id, req.Reviewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(dist, "Commission reversed"))
}
