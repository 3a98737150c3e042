package logic

import (
	"errors"
	"fmt"

	"github.com/blues/fundflow/internal/apperr"
	"github.com/blues/fundflow/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletLogic 钱包和流水业务逻辑
type WalletLogic struct {
	db *gorm.DB
}

// NewWalletLogic 创建钱包业务逻辑
func NewWalletLogic(db *gorm.DB) *WalletLogic {
	return &WalletLogic{db: db}
}

// Donate 捐赠核心操作。四处写在同一个数据库事务里，全部成功或全部回滚：
//  1. 新增一条 donation 流水
//  2. 活动 current_amount += amount, backer_count += 1
//  3. 捐赠人 total_donated += amount
//  4. 属主公司 total_raised += amount
//
// 计数器一律用 SET x = x + ? 原子自增，活动行加行锁，并发捐赠不丢更新。
// 注意捐赠不动 wallet.balance，钱包余额只服务充值 / 提现。
func (l *WalletLogic) Donate(accountID uint, campaignID uint, amount decimal.Decimal) (*model.Transaction, *model.Campaign, error) {
	if !amount.IsPositive() {
		return nil, nil, apperr.New(apperr.KindValidation, "amount must be greater than 0")
	}

	profile, err := l.profileForAccount(accountID)
	if err != nil {
		return nil, nil, err
	}

	var (
		txn      *model.Transaction
		campaign model.Campaign
	)
	err = l.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&campaign, campaignID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.KindNotFound, "campaign not found")
			}
			return err
		}
		if campaign.Status != model.CampaignStatusActive {
			return apperr.New(apperr.KindInvalidState, "campaign is not active")
		}

		txn = &model.Transaction{
			GeneralUserID: profile.ID,
			CampaignID:    &campaign.ID,
			Amount:        amount,
			Type:          model.TransactionTypeDonation,
			Status:        model.TransactionStatusCompleted,
			Description:   fmt.Sprintf("Donation to %s", campaign.ProductName),
			TransactionID: uuid.NewString(),
		}
		if err := tx.Create(txn).Error; err != nil {
			return err
		}

		if err := incrementRow(tx, &model.Campaign{}, campaign.ID, map[string]interface{}{
			"current_amount": gorm.Expr("current_amount + ?", amount),
			"backer_count":   gorm.Expr("backer_count + 1"),
		}); err != nil {
			return err
		}
		if err := incrementRow(tx, &model.GeneralUser{}, profile.ID, map[string]interface{}{
			"total_donated": gorm.Expr("total_donated + ?", amount),
		}); err != nil {
			return err
		}
		if err := incrementRow(tx, &model.Startup{}, campaign.StartupID, map[string]interface{}{
			"total_raised": gorm.Expr("total_raised + ?", amount),
		}); err != nil {
			return err
		}

		// 重读拿自增后的值，进度在展示层计算
		return tx.Preload("Startup").First(&campaign, campaignID).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return txn, &campaign, nil
}

// Deposit 充值：新增 deposit 流水并增加余额，同一事务
func (l *WalletLogic) Deposit(accountID uint, amount decimal.Decimal) (*model.Transaction, *model.Wallet, error) {
	if !amount.IsPositive() {
		return nil, nil, apperr.New(apperr.KindValidation, "amount must be greater than 0")
	}

	profile, err := l.profileForAccount(accountID)
	if err != nil {
		return nil, nil, err
	}

	var (
		txn    *model.Transaction
		wallet model.Wallet
	)
	err = l.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Where("general_user_id = ?", profile.ID).First(&wallet).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.KindFailedPrecondition, "wallet not found")
			}
			return err
		}

		txn = &model.Transaction{
			GeneralUserID: profile.ID,
			Amount:        amount,
			Type:          model.TransactionTypeDeposit,
			Status:        model.TransactionStatusCompleted,
			Description:   "Wallet deposit",
			TransactionID: uuid.NewString(),
		}
		if err := tx.Create(txn).Error; err != nil {
			return err
		}

		if err := incrementRow(tx, &model.Wallet{}, wallet.ID, map[string]interface{}{
			"balance": gorm.Expr("balance + ?", amount),
		}); err != nil {
			return err
		}
		return tx.First(&wallet, wallet.ID).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return txn, &wallet, nil
}

// Withdraw 提现：余额不足直接拒绝，扣减和流水同一事务
func (l *WalletLogic) Withdraw(accountID uint, amount decimal.Decimal) (*model.Transaction, *model.Wallet, error) {
	if !amount.IsPositive() {
		return nil, nil, apperr.New(apperr.KindValidation, "amount must be greater than 0")
	}

	profile, err := l.profileForAccount(accountID)
	if err != nil {
		return nil, nil, err
	}

	var (
		txn    *model.Transaction
		wallet model.Wallet
	)
	err = l.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Where("general_user_id = ?", profile.ID).First(&wallet).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.KindFailedPrecondition, "wallet not found")
			}
			return err
		}
		if wallet.Balance.LessThan(amount) {
			return apperr.New(apperr.KindValidation, "insufficient balance")
		}

		txn = &model.Transaction{
			GeneralUserID: profile.ID,
			Amount:        amount,
			Type:          model.TransactionTypeWithdrawal,
			Status:        model.TransactionStatusCompleted,
			Description:   "Wallet withdrawal",
			TransactionID: uuid.NewString(),
		}
		if err := tx.Create(txn).Error; err != nil {
			return err
		}

		if err := incrementRow(tx, &model.Wallet{}, wallet.ID, map[string]interface{}{
			"balance": gorm.Expr("balance - ?", amount),
		}); err != nil {
			return err
		}
		return tx.First(&wallet, wallet.ID).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return txn, &wallet, nil
}

// MyWallet 当前用户的钱包
func (l *WalletLogic) MyWallet(accountID uint) (*model.Wallet, error) {
	profile, err := l.profileForAccount(accountID)
	if err != nil {
		return nil, err
	}

	var wallet model.Wallet
	err = l.db.Preload("GeneralUser").Preload("GeneralUser.Account").
		Where("general_user_id = ?", profile.ID).
		First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "wallet not found")
		}
		return nil, err
	}
	return &wallet, nil
}

// Transactions 当前用户的流水，按时间倒序
func (l *WalletLogic) Transactions(accountID uint) ([]model.Transaction, error) {
	profile, err := l.profileForAccount(accountID)
	if err != nil {
		return nil, err
	}

	var transactions []model.Transaction
	err = l.db.Preload("Campaign").
		Where("general_user_id = ?", profile.ID).
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}

func (l *WalletLogic) profileForAccount(accountID uint) (*model.GeneralUser, error) {
	var profile model.GeneralUser
	if err := l.db.Where("account_id = ?", accountID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindFailedPrecondition, "user must have a general user profile")
		}
		return nil, err
	}
	return &profile, nil
}

// lockForUpdate 行级锁。sqlite 不支持 FOR UPDATE，它的写锁本身就串行化事务
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// incrementRow 对单行做原子自增，行不存在算失败，让外层事务整体回滚
func incrementRow(tx *gorm.DB, m interface{}, id uint, updates map[string]interface{}) error {
	res := tx.Model(m).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("row %d not found during counter update", id)
	}
	return nil
}
