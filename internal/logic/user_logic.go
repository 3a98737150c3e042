package logic

import (
	"errors"

	"github.com/blues/fundflow/internal/apperr"
	"github.com/blues/fundflow/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength 密码最短长度
const MinPasswordLength = 6

// UserLogic 用户业务逻辑
type UserLogic struct {
	db *gorm.DB
}

// NewUserLogic 创建用户业务逻辑
func NewUserLogic(db *gorm.DB) *UserLogic {
	return &UserLogic{db: db}
}

// RegisterInput 注册参数
type RegisterInput struct {
	Username          string
	Email             string
	Password          string
	FirstName         string
	LastName          string
	PhoneNumber       string
	CitizenshipNumber string
}

// Register 注册：一个事务里创建 Account + GeneralUser + 零余额 Wallet。
// 重复用户名 / 邮箱 / 证件号、弱密码分别返回独立的错误，不做笼统吞错。
func (l *UserLogic) Register(in RegisterInput) (*model.Account, error) {
	if in.Username == "" {
		return nil, apperr.New(apperr.KindValidation, "username is required")
	}
	if in.Email == "" {
		return nil, apperr.New(apperr.KindValidation, "email is required")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, apperr.Newf(apperr.KindValidation, "password must be at least %d characters", MinPasswordLength)
	}

	// 先做存在性检查给出明确的错误，真正的唯一性由存储层索引兜底
	var count int64
	if err := l.db.Model(&model.Account{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.New(apperr.KindValidation, "username already taken")
	}
	if err := l.db.Model(&model.Account{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.New(apperr.KindValidation, "email already registered")
	}
	if in.CitizenshipNumber != "" {
		if err := l.db.Model(&model.GeneralUser{}).Where("citizenship_number = ?", in.CitizenshipNumber).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, apperr.New(apperr.KindValidation, "citizenship number already registered")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}

	err = l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}

		var citizenship *string
		if in.CitizenshipNumber != "" {
			citizenship = &in.CitizenshipNumber
		}
		profile := &model.GeneralUser{
			AccountID:         account.ID,
			PhoneNumber:       in.PhoneNumber,
			CitizenshipNumber: citizenship,
			TotalDonated:      decimal.Zero,
		}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}

		wallet := &model.Wallet{
			GeneralUserID: profile.ID,
			Balance:       decimal.Zero,
		}
		return tx.Create(wallet).Error
	})
	if err != nil {
		// 检查和插入之间被别人抢先，落到唯一索引上
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Wrap(apperr.KindValidation, "duplicate registration data", err)
		}
		return nil, err
	}

	return account, nil
}

// Authenticate 用户名密码登录，返回带账号信息的用户档案
func (l *UserLogic) Authenticate(username, password string) (*model.GeneralUser, error) {
	var account model.Account
	if err := l.db.Where("username = ?", username).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindUnauthorized, "invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.New(apperr.KindUnauthorized, "invalid credentials")
	}

	return l.Profile(account.ID)
}

// Profile 按账号 ID 取用户档案
func (l *UserLogic) Profile(accountID uint) (*model.GeneralUser, error) {
	var profile model.GeneralUser
	err := l.db.Preload("Account").Where("account_id = ?", accountID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "user profile not found")
		}
		return nil, err
	}
	return &profile, nil
}
