package logic

import (
	"errors"
	"time"

	"github.com/blues/fundflow/internal/apperr"
	"github.com/blues/fundflow/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TopCampaignLimit trending / popular 榜单长度
const TopCampaignLimit = 10

// CampaignLogic 众筹活动业务逻辑
type CampaignLogic struct {
	db *gorm.DB
}

// NewCampaignLogic 创建众筹活动业务逻辑
func NewCampaignLogic(db *gorm.DB) *CampaignLogic {
	return &CampaignLogic{db: db}
}

// CampaignCreateInput 创建活动参数
type CampaignCreateInput struct {
	ProductName         string
	ProductType         model.ProductType
	Description         string
	DetailedDescription string
	GoalAmount          decimal.Decimal
	EarlyAccessPrice    decimal.Decimal
	EstimatedDelivery   *time.Time
	EndDate             *time.Time
}

// CampaignUpdateInput 更新活动参数，nil 表示不改
type CampaignUpdateInput struct {
	ProductName         *string
	ProductType         *model.ProductType
	Description         *string
	DetailedDescription *string
	GoalAmount          *decimal.Decimal
	EarlyAccessPrice    *decimal.Decimal
	EstimatedDelivery   *time.Time
	EndDate             *time.Time
	Status              *model.CampaignStatus
}

// CampaignFilter 列表过滤参数
type CampaignFilter struct {
	Status    model.CampaignStatus
	StartupID uint
}

// CreateCampaign 创建活动，只有公司账号可以发起
func (l *CampaignLogic) CreateCampaign(accountID uint, in CampaignCreateInput) (*model.Campaign, error) {
	startup, err := l.startupForAccount(accountID)
	if err != nil {
		return nil, err
	}

	if in.ProductName == "" {
		return nil, apperr.New(apperr.KindValidation, "product name is required")
	}
	if !model.ValidProductType(in.ProductType) {
		return nil, apperr.New(apperr.KindValidation, "invalid product type")
	}
	if !in.GoalAmount.IsPositive() {
		return nil, apperr.New(apperr.KindValidation, "goal amount must be greater than 0")
	}
	if in.EarlyAccessPrice.IsNegative() {
		return nil, apperr.New(apperr.KindValidation, "early access price must not be negative")
	}

	campaign := &model.Campaign{
		StartupID:           startup.ID,
		ProductName:         in.ProductName,
		ProductType:         in.ProductType,
		Description:         in.Description,
		DetailedDescription: in.DetailedDescription,
		GoalAmount:          in.GoalAmount,
		CurrentAmount:       decimal.Zero,
		EarlyAccessPrice:    in.EarlyAccessPrice,
		EstimatedDelivery:   in.EstimatedDelivery,
		EndDate:             in.EndDate,
		Status:              model.CampaignStatusActive,
	}
	if err := l.db.Create(campaign).Error; err != nil {
		return nil, err
	}
	campaign.Startup = *startup

	return campaign, nil
}

// ListCampaigns 活动列表。可见性规则对列表和详情保持一致：
// 非 active 的活动只有属主公司能看到。
func (l *CampaignLogic) ListCampaigns(viewerStartupID *uint, filter CampaignFilter) ([]model.Campaign, error) {
	q := l.db.Preload("Startup").Order("created_at DESC")

	if viewerStartupID != nil {
		q = q.Where("status = ? OR startup_id = ?", model.CampaignStatusActive, *viewerStartupID)
	} else {
		q = q.Where("status = ?", model.CampaignStatusActive)
	}

	if filter.Status != "" {
		if !model.ValidCampaignStatus(filter.Status) {
			return nil, apperr.New(apperr.KindValidation, "invalid status filter")
		}
		q = q.Where("status = ?", filter.Status)
	}
	if filter.StartupID != 0 {
		q = q.Where("startup_id = ?", filter.StartupID)
	}

	var campaigns []model.Campaign
	if err := q.Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// GetCampaign 活动详情，可见性规则同列表
func (l *CampaignLogic) GetCampaign(id uint, viewerStartupID *uint) (*model.Campaign, error) {
	var campaign model.Campaign
	err := l.db.Preload("Startup").Preload("Startup.Account").First(&campaign, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "campaign not found")
		}
		return nil, err
	}

	if campaign.Status != model.CampaignStatusActive {
		if viewerStartupID == nil || *viewerStartupID != campaign.StartupID {
			return nil, apperr.New(apperr.KindNotFound, "campaign not found")
		}
	}

	return &campaign, nil
}

// UpdateCampaign 更新活动，只有属主可以改；状态变更要走状态机
func (l *CampaignLogic) UpdateCampaign(accountID uint, id uint, in CampaignUpdateInput) (*model.Campaign, error) {
	startup, err := l.startupForAccount(accountID)
	if err != nil {
		return nil, err
	}

	var campaign model.Campaign
	if err := l.db.First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "campaign not found")
		}
		return nil, err
	}
	if campaign.StartupID != startup.ID {
		return nil, apperr.New(apperr.KindForbidden, "you do not have permission to update this campaign")
	}

	updates := make(map[string]interface{})
	if in.ProductName != nil {
		if *in.ProductName == "" {
			return nil, apperr.New(apperr.KindValidation, "product name is required")
		}
		updates["product_name"] = *in.ProductName
	}
	if in.ProductType != nil {
		if !model.ValidProductType(*in.ProductType) {
			return nil, apperr.New(apperr.KindValidation, "invalid product type")
		}
		updates["product_type"] = *in.ProductType
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.DetailedDescription != nil {
		updates["detailed_description"] = *in.DetailedDescription
	}
	if in.GoalAmount != nil {
		if !in.GoalAmount.IsPositive() {
			return nil, apperr.New(apperr.KindValidation, "goal amount must be greater than 0")
		}
		updates["goal_amount"] = *in.GoalAmount
	}
	if in.EarlyAccessPrice != nil {
		if in.EarlyAccessPrice.IsNegative() {
			return nil, apperr.New(apperr.KindValidation, "early access price must not be negative")
		}
		updates["early_access_price"] = *in.EarlyAccessPrice
	}
	if in.EstimatedDelivery != nil {
		updates["estimated_delivery"] = *in.EstimatedDelivery
	}
	if in.EndDate != nil {
		updates["end_date"] = *in.EndDate
	}
	if in.Status != nil {
		if !model.ValidCampaignStatus(*in.Status) {
			return nil, apperr.New(apperr.KindValidation, "invalid status")
		}
		if *in.Status != campaign.Status {
			if !campaign.CanTransition(*in.Status) {
				return nil, apperr.Newf(apperr.KindInvalidState, "cannot change status from %s to %s", campaign.Status, *in.Status)
			}
			updates["status"] = *in.Status
		}
	}

	if len(updates) == 0 {
		return nil, apperr.New(apperr.KindValidation, "no fields to update")
	}

	if err := l.db.Model(&campaign).Updates(updates).Error; err != nil {
		return nil, err
	}

	return l.GetCampaign(id, &startup.ID)
}

// CancelCampaign 软删除：置为 cancelled，行保留，任何状态都允许
func (l *CampaignLogic) CancelCampaign(accountID uint, id uint) error {
	startup, err := l.startupForAccount(accountID)
	if err != nil {
		return err
	}

	var campaign model.Campaign
	if err := l.db.First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.KindNotFound, "campaign not found")
		}
		return err
	}
	if campaign.StartupID != startup.ID {
		return apperr.New(apperr.KindForbidden, "you do not have permission to delete this campaign")
	}

	return l.db.Model(&campaign).Update("status", model.CampaignStatusCancelled).Error
}

// TrendingCampaigns 支持者最多的前 10 个进行中活动
func (l *CampaignLogic) TrendingCampaigns() ([]model.Campaign, error) {
	return l.topCampaigns("backer_count DESC")
}

// PopularCampaigns 募资最多的前 10 个进行中活动
func (l *CampaignLogic) PopularCampaigns() ([]model.Campaign, error) {
	return l.topCampaigns("current_amount DESC")
}

func (l *CampaignLogic) topCampaigns(order string) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := l.db.Preload("Startup").
		Where("status = ?", model.CampaignStatusActive).
		Order(order).
		Limit(TopCampaignLimit).
		Find(&campaigns).Error
	return campaigns, err
}

// MyCampaigns 当前公司的全部活动，不论状态
func (l *CampaignLogic) MyCampaigns(accountID uint) ([]model.Campaign, error) {
	startup, err := l.startupForAccount(accountID)
	if err != nil {
		return nil, err
	}

	var campaigns []model.Campaign
	err = l.db.Preload("Startup").
		Where("startup_id = ?", startup.ID).
		Order("created_at DESC").
		Find(&campaigns).Error
	return campaigns, err
}

// ViewerStartupID 当前账号对应的公司 ID，用于可见性判断；不是公司返回 nil
func (l *CampaignLogic) ViewerStartupID(accountID uint) *uint {
	var startup model.Startup
	if err := l.db.Select("id").Where("account_id = ?", accountID).First(&startup).Error; err != nil {
		return nil
	}
	return &startup.ID
}

func (l *CampaignLogic) startupForAccount(accountID uint) (*model.Startup, error) {
	var startup model.Startup
	if err := l.db.Where("account_id = ?", accountID).First(&startup).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindForbidden, "only startups can manage campaigns")
		}
		return nil, err
	}
	return &startup, nil
}
