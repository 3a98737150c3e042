package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Campaign 众筹活动模型
type Campaign struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	StartupID uint    `json:"startup_id" gorm:"index;not null"`
	Startup   Startup `json:"startup" gorm:"foreignKey:StartupID"`

	// 基本信息
	ProductName         string      `json:"product_name" gorm:"size:255;not null" binding:"required"`
	ProductType         ProductType `json:"product_type" gorm:"size:20"`
	Description         string      `json:"description" gorm:"type:text"`
	DetailedDescription string      `json:"detailed_description" gorm:"type:text"`

	// 众筹信息，current_amount 允许超过 goal_amount（超募）
	GoalAmount       decimal.Decimal `json:"goal_amount" gorm:"type:numeric(12,2);not null"`
	CurrentAmount    decimal.Decimal `json:"current_amount" gorm:"type:numeric(12,2);not null;default:0"`
	EarlyAccessPrice decimal.Decimal `json:"early_access_price" gorm:"type:numeric(10,2);not null;default:0"`
	BackerCount      int             `json:"backer_count" gorm:"not null;default:0"`

	// 时间信息
	EstimatedDelivery *time.Time `json:"estimated_delivery"`
	EndDate           *time.Time `json:"end_date"`

	// 状态，删除即软删：置为 cancelled，行永远保留
	Status CampaignStatus `json:"status" gorm:"size:20;default:'active'"`
}

// TableName 自定义表名
func (Campaign) TableName() string {
	return "campaign"
}

// ProgressPercentage 完成度百分比，展示层使用，不落库。
// goal 为 0 时返回 0，超募时封顶 100。
func (c *Campaign) ProgressPercentage() decimal.Decimal {
	if !c.GoalAmount.IsPositive() {
		return decimal.Zero
	}
	pct := c.CurrentAmount.Div(c.GoalAmount).Mul(decimal.NewFromInt(100))
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	return pct.Round(2)
}

// CampaignStatus 活动状态
type CampaignStatus string

const (
	CampaignStatusActive    CampaignStatus = "active"    // 进行中
	CampaignStatusCompleted CampaignStatus = "completed" // 已完成
	CampaignStatusCancelled CampaignStatus = "cancelled" // 已取消
	CampaignStatusPaused    CampaignStatus = "paused"    // 已暂停
)

// ValidCampaignStatus 状态是否合法
func ValidCampaignStatus(s CampaignStatus) bool {
	switch s {
	case CampaignStatusActive, CampaignStatusCompleted, CampaignStatusCancelled, CampaignStatusPaused:
		return true
	}
	return false
}

// CanTransition 状态机：active → {completed, cancelled, paused}；
// 软删除另走 Cancel，任何状态都允许。
func (c *Campaign) CanTransition(to CampaignStatus) bool {
	if c.Status != CampaignStatusActive {
		return false
	}
	switch to {
	case CampaignStatusCompleted, CampaignStatusCancelled, CampaignStatusPaused:
		return true
	}
	return false
}

// ProductType 产品类型
type ProductType string

const (
	ProductTypePhysical ProductType = "physical"
	ProductTypeDigital  ProductType = "digital"
	ProductTypeService  ProductType = "service"
)

// ValidProductType 产品类型是否合法
func ValidProductType(t ProductType) bool {
	switch t {
	case ProductTypePhysical, ProductTypeDigital, ProductTypeService:
		return true
	}
	return false
}
