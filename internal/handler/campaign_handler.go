package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/fundflow/internal/logic"
	"github.com/blues/fundflow/internal/model"
	"github.com/blues/fundflow/internal/session"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CampaignHandler struct {
	campaignLogic *logic.CampaignLogic
}

func NewCampaignHandler(db *gorm.DB) *CampaignHandler {
	return &CampaignHandler{
		campaignLogic: logic.NewCampaignLogic(db),
	}
}

// viewerStartupID 可见性判断用：已登录且是公司账号时返回公司 ID
func (h *CampaignHandler) viewerStartupID(c *gin.Context) *uint {
	accountID, ok := session.AccountID(c)
	if !ok {
		return nil
	}
	return h.campaignLogic.ViewerStartupID(accountID)
}

// Create 创建活动（仅公司账号）
func (h *CampaignHandler) Create(c *gin.Context) {
	var req CampaignCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	campaign, err := h.campaignLogic.CreateCampaign(currentAccountID(c), logic.CampaignCreateInput{
		ProductName:         req.ProductName,
		ProductType:         model.ProductType(req.ProductType),
		Description:         req.Description,
		DetailedDescription: req.DetailedDescription,
		GoalAmount:          req.GoalAmount,
		EarlyAccessPrice:    req.EarlyAccessPrice,
		EstimatedDelivery:   req.EstimatedDelivery,
		EndDate:             req.EndDate,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Campaign created successfully", newCampaignDetail(campaign))
}

// List 活动列表，支持 status 和 startup_id 过滤
func (h *CampaignHandler) List(c *gin.Context) {
	filter := logic.CampaignFilter{
		Status: model.CampaignStatus(c.Query("status")),
	}
	if s := c.Query("startup_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "invalid startup_id filter")
			return
		}
		filter.StartupID = uint(id)
	}

	campaigns, err := h.campaignLogic.ListCampaigns(h.viewerStartupID(c), filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", newCampaignListItems(campaigns))
}

// Get 活动详情
func (h *CampaignHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid campaign id")
		return
	}

	campaign, err := h.campaignLogic.GetCampaign(uint(id), h.viewerStartupID(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", newCampaignDetail(campaign))
}

// Update 更新活动（仅属主）
func (h *CampaignHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid campaign id")
		return
	}

	var req CampaignUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	in := logic.CampaignUpdateInput{
		ProductName:         req.ProductName,
		Description:         req.Description,
		DetailedDescription: req.DetailedDescription,
		GoalAmount:          req.GoalAmount,
		EarlyAccessPrice:    req.EarlyAccessPrice,
		EstimatedDelivery:   req.EstimatedDelivery,
		EndDate:             req.EndDate,
	}
	if req.ProductType != nil {
		t := model.ProductType(*req.ProductType)
		in.ProductType = &t
	}
	if req.Status != nil {
		s := model.CampaignStatus(*req.Status)
		in.Status = &s
	}

	campaign, err := h.campaignLogic.UpdateCampaign(currentAccountID(c), uint(id), in)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Campaign updated successfully", newCampaignDetail(campaign))
}

// Delete 软删除：置为 cancelled，行保留
func (h *CampaignHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid campaign id")
		return
	}

	if err := h.campaignLogic.CancelCampaign(currentAccountID(c), uint(id)); err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Campaign cancelled successfully", nil)
}

// Trending 支持者最多的进行中活动
func (h *CampaignHandler) Trending(c *gin.Context) {
	campaigns, err := h.campaignLogic.TrendingCampaigns()
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", newCampaignListItems(campaigns))
}

// Popular 募资最多的进行中活动
func (h *CampaignHandler) Popular(c *gin.Context) {
	campaigns, err := h.campaignLogic.PopularCampaigns()
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", newCampaignListItems(campaigns))
}

// MyCampaigns 当前公司的全部活动
func (h *CampaignHandler) MyCampaigns(c *gin.Context) {
	campaigns, err := h.campaignLogic.MyCampaigns(currentAccountID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", newCampaignListItems(campaigns))
}
