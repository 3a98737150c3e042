package logic

import (
	"errors"

	"github.com/blues/fundflow/internal/apperr"
	"github.com/blues/fundflow/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StartupLogic 创业公司业务逻辑
type StartupLogic struct {
	db *gorm.DB
}

// NewStartupLogic 创建创业公司业务逻辑
func NewStartupLogic(db *gorm.DB) *StartupLogic {
	return &StartupLogic{db: db}
}

// StartupRegisterInput 档案升级参数
type StartupRegisterInput struct {
	CompanyName string
	Category    model.StartupCategory
	Description string
	Website     string
}

// RegisterStartup 把普通用户档案升级为创业公司档案。
// 单向操作，没有降级路径；公司名唯一由存储层索引保证。
func (l *StartupLogic) RegisterStartup(accountID uint, in StartupRegisterInput) (*model.Startup, error) {
	if in.CompanyName == "" {
		return nil, apperr.New(apperr.KindValidation, "company name is required")
	}
	if !model.ValidCategory(in.Category) {
		return nil, apperr.New(apperr.KindValidation, "invalid category")
	}
	if in.Description == "" {
		return nil, apperr.New(apperr.KindValidation, "description is required")
	}

	var profile model.GeneralUser
	if err := l.db.Where("account_id = ?", accountID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindFailedPrecondition, "user must have a general user profile first")
		}
		return nil, err
	}

	var count int64
	if err := l.db.Model(&model.Startup{}).Where("account_id = ?", accountID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.New(apperr.KindValidation, "account already has a startup profile")
	}
	if err := l.db.Model(&model.Startup{}).Where("company_name = ?", in.CompanyName).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.New(apperr.KindValidation, "company name already taken")
	}

	startup := &model.Startup{
		AccountID:      accountID,
		GeneralUserID:  profile.ID,
		CompanyName:    in.CompanyName,
		Category:       in.Category,
		Description:    in.Description,
		Website:        in.Website,
		TotalRequested: decimal.Zero,
		TotalRaised:    decimal.Zero,
	}
	if err := l.db.Create(startup).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Wrap(apperr.KindValidation, "company name already taken", err)
		}
		return nil, err
	}

	return l.GetStartupAny(startup.ID)
}

// ListStartups 公开列表，只展示已认证的公司
func (l *StartupLogic) ListStartups() ([]model.Startup, error) {
	var startups []model.Startup
	err := l.db.Preload("Account").
		Where("is_verified = ?", true).
		Order("created_at DESC").
		Find(&startups).Error
	return startups, err
}

// GetStartup 公开详情，未认证的公司对外不可见
func (l *StartupLogic) GetStartup(id uint) (*model.Startup, error) {
	var startup model.Startup
	err := l.db.Preload("Account").
		Where("id = ? AND is_verified = ?", id, true).
		First(&startup).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "startup not found")
		}
		return nil, err
	}
	return &startup, nil
}

// GetStartupAny 内部取详情，不过滤认证状态
func (l *StartupLogic) GetStartupAny(id uint) (*model.Startup, error) {
	var startup model.Startup
	err := l.db.Preload("Account").Preload("GeneralUser").First(&startup, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "startup not found")
		}
		return nil, err
	}
	return &startup, nil
}

// MyStartup 当前账号的公司档案
func (l *StartupLogic) MyStartup(accountID uint) (*model.Startup, error) {
	var startup model.Startup
	err := l.db.Preload("Account").Preload("GeneralUser").
		Where("account_id = ?", accountID).
		First(&startup).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "user does not have a startup")
		}
		return nil, err
	}
	return &startup, nil
}

// ActiveCampaignCount 公司进行中的活动数，详情接口展示用
func (l *StartupLogic) ActiveCampaignCount(startupID uint) (int64, error) {
	var count int64
	err := l.db.Model(&model.Campaign{}).
		Where("startup_id = ? AND status = ?", startupID, model.CampaignStatusActive).
		Count(&count).Error
	return count, err
}

// StartupStats 平台统计
type StartupStats struct {
	TotalStartups int64           `json:"total_startups"`
	TotalFunded   decimal.Decimal `json:"total_funded"`
}

// Stats 已认证公司数量和募资总额
func (l *StartupLogic) Stats() (*StartupStats, error) {
	stats := &StartupStats{TotalFunded: decimal.Zero}

	if err := l.db.Model(&model.Startup{}).
		Where("is_verified = ?", true).
		Count(&stats.TotalStartups).Error; err != nil {
		return nil, err
	}

	var total decimal.NullDecimal
	if err := l.db.Model(&model.Startup{}).
		Where("is_verified = ?", true).
		Select("SUM(total_raised)").
		Scan(&total).Error; err != nil {
		return nil, err
	}
	if total.Valid {
		stats.TotalFunded = total.Decimal
	}

	return stats, nil
}
