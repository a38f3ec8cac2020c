package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"referral-commerce-service/internal/services"
	"referral-commerce-service/pkg/common"
)

type RechargeHandler struct {
	Recharge *services.RechargeService
}

func NewRechargeHandler(recharge *services.RechargeService) *RechargeHandler {
	return &RechargeHandler{Recharge: recharge}
}

type createRechargeRequest struct {
	UserId         int    `json:"user_id" binding:"required"`
	Amount         string `json:"amount" binding:"required"`
	PaymentMethod  string `json:"payment_method"`
	ProofReference string `json:"proof_reference" binding:"required"`
}

func (h *RechargeHandler) Create(c *gin.Context) {
	var req createRechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid amount", nil, http.StatusBadRequest))
		return
	}

	request, err := h.Recharge.CreateRequest(req.UserId, amount, req.PaymentMethod, req.ProofReference)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(request, "Recharge request created"))
}

func (h *RechargeHandler) Approve(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid request id", nil, http.StatusBadRequest))
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	request, err := h.Recharge.Approve(id, req.Reviewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(request, "Recharge approved"))
}

func (h *RechargeHandler) Reject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid request id", nil, http.StatusBadRequest))
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	request, err := h.Recharge.Reject(id, req.Reviewer, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(request, "Recharge rejected"))
}

func (h *RechargeHandler) List(c *gin.Context) {
	userId, _ := strconv.Atoi(c.Query("user_id"))
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.Recharge.List(services.ListRechargesDTO{
		UserId: userId,
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
