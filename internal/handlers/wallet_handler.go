package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"referral-commerce-service/internal/services"
	"referral-commerce-service/pkg/common"
)

type WalletHandler struct {
	Wallet *services.WalletService
}

func NewWalletHandler(wallet *services.WalletService) *WalletHandler {
	return &WalletHandler{Wallet: wallet}
}

func (h *WalletHandler) GetBalance(c *gin.Context) {
	userId, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid user id", nil, http.StatusBadRequest))
		return
	}

	wallet, err := h.Wallet.GetWallet(userId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(wallet, "Wallet fetched"))
}

func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userId, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid user id", nil, http.StatusBadRequest))
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.Wallet.ListTransactions(services.ListTransactionsDTO{
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
