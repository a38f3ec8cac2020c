package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"referral-commerce-service/internal/services"
	"referral-commerce-service/pkg/common"
)

type OrderHandler struct {
	Orders *services.OrderService
}

func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{Orders: orders}
}

type placeOrderRequest struct {
	UserId         int    `json:"user_id" binding:"required"`
	ProductId      int    `json:"product_id" binding:"required"`
	PaymentMethod  string `json:"payment_method" binding:"required"`
	ProofReference string `json:"proof_reference"`
}

func (h *OrderHandler) Place(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	order, err := h.Orders.PlaceOrder(services.PlaceOrderDTO{
		UserId:         req.UserId,
		ProductId:      req.ProductId,
		PaymentMethod:  req.PaymentMethod,
		ProofReference: req.ProofReference,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(order, "Order placed"))
}

func (h *OrderHandler) Approve(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid order id", nil, http.StatusBadRequest))
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	order, err := h.Orders.ApproveManualOrder(id, req.Reviewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(order, "Order payment approved"))
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid order id", nil, http.StatusBadRequest))
		return
	}
	var req cancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	order, err := h.Orders.CancelOrder(id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(order, "Order cancelled"))
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid order id", nil, http.StatusBadRequest))
		return
	}

	order, events, err := h.Orders.GetOrder(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"order":  order,
		"events": events,
	}, "Order fetched"))
}

func (h *OrderHandler) List(c *gin.Context) {
	userId, _ := strconv.Atoi(c.Query("user_id"))
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.Orders.List(services.ListOrdersDTO{
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
