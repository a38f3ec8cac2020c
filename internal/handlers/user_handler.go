package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"referral-commerce-service/internal/services"
	"referral-commerce-service/pkg/common"
)

type UserHandler struct {
	Users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

type registerRequest struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	ReferralCode string `json:"referral_code"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	user, err := h.Users.Register(services.RegisterUserDTO{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		PasswordHash: req.PasswordHash,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(user, "User registered"))
}

func (h *UserHandler) Get(c *gin.Context) {
	userId, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid user id", nil, http.StatusBadRequest))
		return
	}

	user, err := h.Users.Get(userId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(user, "User fetched"))
}

type bankAccountRequest struct {
	HolderName    string `json:"holder_name" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
	IfscCode      string `json:"ifsc_code" binding:"required"`
	BankName      string `json:"bank_name" binding:"required"`
}

func (h *UserHandler) SaveBankAccount(c *gin.Context) {
	userId, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid user id", nil, http.StatusBadRequest))
		return
	}
	var req bankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	account, err := h.Users.SaveBankAccount(services.SaveBankAccountDTO{
		UserId:        userId,
		HolderName:    req.HolderName,
		AccountNumber: req.AccountNumber,
		IfscCode:      req.IfscCode,
		BankName:      req.BankName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(account, "Bank account saved"))
}
