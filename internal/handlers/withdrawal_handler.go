package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"referral-commerce-service/internal/services"
	"referral-commerce-service/pkg/common"
)

type WithdrawalHandler struct {
	Withdrawal *services.WithdrawalService
}

func NewWithdrawalHandler(withdrawal *services.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{Withdrawal: withdrawal}
}

type createWithdrawalRequest struct {
	UserId int    `json:"user_id" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

func (h *WithdrawalHandler) Create(c *gin.Context) {
	var req createWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid amount", nil, http.StatusBadRequest))
		return
	}

	request, err := h.Withdrawal.CreateRequest(req.UserId, amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(request, "Withdrawal request created"))
}

type reviewRequest struct {
	Reviewer string `json:"reviewer" binding:"required"`
	Comment  string `json:"comment"`
}

func (h *WithdrawalHandler) Approve(c *gin.Context) {
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

	request, err := h.Withdrawal.Approve(id, req.Reviewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(request, "Withdrawal approved"))
}

func (h *WithdrawalHandler) Reject(c *gin.Context) {
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

	request, err := h.Withdrawal.Reject(id, req.Reviewer, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(request, "Withdrawal rejected"))
}

func (h *WithdrawalHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid request id", nil, http.StatusBadRequest))
		return
	}

	request, err := h.Withdrawal.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(request, "Withdrawal request fetched"))
}

func (h *WithdrawalHandler) List(c *gin.Context) {
	userId, _ := strconv.Atoi(c.Query("user_id"))
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.Withdrawal.List(services.ListWithdrawalsDTO{
		UserId: userId,
		Status: c.Query("status"),
		From:   c.Query("from"),
		To:     c.Query("to"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
