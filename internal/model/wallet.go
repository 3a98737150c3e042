package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet 用户钱包，和 GeneralUser 一一对应，注册时创建
type Wallet struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	GeneralUserID uint        `json:"general_user_id" gorm:"uniqueIndex;not null"`
	GeneralUser   GeneralUser `json:"general_user" gorm:"foreignKey:GeneralUserID"`

	Balance decimal.Decimal `json:"balance" gorm:"type:numeric(12,2);not null;default:0"`
}

// TableName 自定义表名
func (Wallet) TableName() string {
	return "wallet"
}

// Transaction 资金流水，创建后不再修改
type Transaction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	GeneralUserID uint        `json:"general_user_id" gorm:"index;not null"`
	GeneralUser   GeneralUser `json:"general_user" gorm:"foreignKey:GeneralUserID"`

	// 活动被删除时引用置空，流水保留
	CampaignID *uint     `json:"campaign_id" gorm:"index"`
	Campaign   *Campaign `json:"campaign,omitempty" gorm:"foreignKey:CampaignID;constraint:OnDelete:SET NULL"`

	Amount      decimal.Decimal   `json:"amount" gorm:"type:numeric(12,2);not null"`
	Type        TransactionType   `json:"transaction_type" gorm:"size:20;not null"`
	Status      TransactionStatus `json:"status" gorm:"size:20;default:'completed'"`
	Description string            `json:"description" gorm:"size:255"`

	// 全局唯一流水号，永不复用
	TransactionID string `json:"transaction_id" gorm:"size:100;uniqueIndex;not null"`
}

// TableName 自定义表名
func (Transaction) TableName() string {
	return "transaction"
}

// TransactionType 流水类型
type TransactionType string

const (
	TransactionTypeDonation   TransactionType = "donation"
	TransactionTypeRefund     TransactionType = "refund"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeDeposit    TransactionType = "deposit"
)

// TransactionStatus 流水状态
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)
