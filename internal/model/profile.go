package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// GeneralUser 普通用户档案，和 Account 一一对应
type GeneralUser struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AccountID uint    `json:"account_id" gorm:"uniqueIndex;not null"`
	Account   Account `json:"account" gorm:"foreignKey:AccountID"`

	// 联系方式 / 实名信息
	PhoneNumber       string  `json:"phone_number" gorm:"size:20"`
	CitizenshipNumber *string `json:"citizenship_number" gorm:"size:50;uniqueIndex"`
	Address           string  `json:"address" gorm:"size:255"`
	City              string  `json:"city" gorm:"size:100"`
	Country           string  `json:"country" gorm:"size:100"`

	// 累计捐赠金额，只通过捐赠事务里的原子自增更新
	TotalDonated decimal.Decimal `json:"total_donated" gorm:"type:numeric(12,2);not null;default:0"`
}

// TableName 自定义表名
func (GeneralUser) TableName() string {
	return "general_user"
}

// StartupCategory 创业公司类别
type StartupCategory string

const (
	CategoryTech      StartupCategory = "tech"
	CategoryHealth    StartupCategory = "health"
	CategoryFinance   StartupCategory = "finance"
	CategoryEducation StartupCategory = "education"
	CategoryEcommerce StartupCategory = "ecommerce"
	CategoryOther     StartupCategory = "other"
)

// ValidCategory 类别是否合法
func ValidCategory(c StartupCategory) bool {
	switch c {
	case CategoryTech, CategoryHealth, CategoryFinance, CategoryEducation, CategoryEcommerce, CategoryOther:
		return true
	}
	return false
}

// Startup 创业公司档案，建立在 GeneralUser 之上，不替换它
type Startup struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AccountID     uint        `json:"account_id" gorm:"uniqueIndex;not null"`
	Account       Account     `json:"account" gorm:"foreignKey:AccountID"`
	GeneralUserID uint        `json:"general_user_id" gorm:"uniqueIndex;not null"`
	GeneralUser   GeneralUser `json:"general_user" gorm:"foreignKey:GeneralUserID"`

	// 基本信息，公司名全局唯一，唯一性由存储层索引保证
	CompanyName string          `json:"company_name" gorm:"size:255;uniqueIndex;not null"`
	Category    StartupCategory `json:"category" gorm:"size:50"`
	Description string          `json:"description" gorm:"type:text"`
	Website     string          `json:"website" gorm:"size:255"`

	// 募资信息
	TotalRequested decimal.Decimal `json:"total_requested" gorm:"type:numeric(12,2);not null;default:0"`
	TotalRaised    decimal.Decimal `json:"total_raised" gorm:"type:numeric(12,2);not null;default:0"`

	IsVerified bool `json:"is_verified" gorm:"default:false"`
}

// TableName 自定义表名
func (Startup) TableName() string {
	return "startup"
}
