package handler

import (
	"net/http"

	"github.com/blues/fundflow/internal/logic"
	"github.com/blues/fundflow/internal/session"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AccountIDKey 认证中间件写入 context 的账号 ID
const AccountIDKey = "account_id"

func currentAccountID(c *gin.Context) uint {
	return c.GetUint(AccountIDKey)
}

type UserHandler struct {
	userLogic *logic.UserLogic
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		userLogic: logic.NewUserLogic(db),
	}
}

// Register 注册：创建账号、用户档案和零余额钱包
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.userLogic.Register(logic.RegisterInput{
		Username:          req.Username,
		Email:             req.Email,
		Password:          req.Password,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		PhoneNumber:       req.PhoneNumber,
		CitizenshipNumber: req.CitizenshipNumber,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "User registered successfully", gin.H{
		"id":       account.ID,
		"username": account.Username,
		"email":    account.Email,
	})
}

// Login 登录，成功后建立会话
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.userLogic.Authenticate(req.Username, req.Password)
	if err != nil {
		HandleError(c, err)
		return
	}

	if err := session.SetAccount(c, profile.AccountID); err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Login successful", newGeneralUserResponse(profile))
}

// Logout 退出登录，清掉会话
func (h *UserHandler) Logout(c *gin.Context) {
	session.Clear(c)
	SuccessResponse(c, http.StatusOK, "Logout successful", nil)
}

// Me 当前登录用户的档案
func (h *UserHandler) Me(c *gin.Context) {
	profile, err := h.userLogic.Profile(currentAccountID(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", newGeneralUserResponse(profile))
}
