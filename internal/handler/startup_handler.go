package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/fundflow/internal/logic"
	"github.com/blues/fundflow/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StartupHandler struct {
	startupLogic *logic.StartupLogic
}

func NewStartupHandler(db *gorm.DB) *StartupHandler {
	return &StartupHandler{
		startupLogic: logic.NewStartupLogic(db),
	}
}

// Register 普通用户档案升级为公司档案
func (h *StartupHandler) Register(c *gin.Context) {
	var req StartupRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	startup, err := h.startupLogic.RegisterStartup(currentAccountID(c), logic.StartupRegisterInput{
		CompanyName: req.CompanyName,
		Category:    model.StartupCategory(req.Category),
		Description: req.Description,
		Website:     req.Website,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Startup registered successfully", newStartupDetailResponse(startup, 0))
}

// List 已认证公司列表
func (h *StartupHandler) List(c *gin.Context) {
	startups, err := h.startupLogic.ListStartups()
	if err != nil {
		HandleError(c, err)
		return
	}

	items := make([]StartupResponse, 0, len(startups))
	for _, s := range startups {
		items = append(items, newStartupResponse(s))
	}
	SuccessResponse(c, http.StatusOK, "", items)
}

// Get 公司详情
func (h *StartupHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid startup id")
		return
	}

	startup, err := h.startupLogic.GetStartup(uint(id))
	if err != nil {
		HandleError(c, err)
		return
	}

	count, err := h.startupLogic.ActiveCampaignCount(startup.ID)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", newStartupDetailResponse(startup, count))
}

// MyStartup 当前账号的公司档案
func (h *StartupHandler) MyStartup(c *gin.Context) {
	startup, err := h.startupLogic.MyStartup(currentAccountID(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	count, err := h.startupLogic.ActiveCampaignCount(startup.ID)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", newStartupDetailResponse(startup, count))
}

// Stats 平台统计：已认证公司数和募资总额
func (h *StartupHandler) Stats(c *gin.Context) {
	stats, err := h.startupLogic.Stats()
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"total_startups": stats.TotalStartups,
		"total_funded":   stats.TotalFunded.StringFixed(2),
	})
}
