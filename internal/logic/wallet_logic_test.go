package logic

import (
	"sync"
	"testing"

	"github.com/blues/fundflow/internal/apperr"
	"github.com/blues/fundflow/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDonateUpdatesAllFourRecords(t *testing.T) {
	db := openTestDB(t)
	walletLogic := NewWalletLogic(db)

	startup := registerStartup(t, db, "founder", "Acme Inc")
	campaign := createCampaign(t, db, startup, "25000.00")
	require.NoError(t, db.Model(&model.Campaign{}).Where("id = ?", campaign.ID).
		Updates(map[string]interface{}{"current_amount": mustDecimal(t, "8200.00"), "backer_count": 3}).Error)

	donor := registerUser(t, db, "donor")

	txn, got, err := walletLogic.Donate(donor.AccountID, campaign.ID, mustDecimal(t, "500.00"))
	require.NoError(t, err)

	// 流水
	require.Equal(t, model.TransactionTypeDonation, txn.Type)
	require.Equal(t, model.TransactionStatusCompleted, txn.Status)
	require.Equal(t, "500.00", txn.Amount.StringFixed(2))
	require.NotEmpty(t, txn.TransactionID)
	require.Contains(t, txn.Description, "Test Product")

	// 活动计数器和进度
	require.Equal(t, "8700.00", got.CurrentAmount.StringFixed(2))
	require.Equal(t, 4, got.BackerCount)
	require.Equal(t, "34.80", got.ProgressPercentage().StringFixed(2))

	// 捐赠人累计
	var profile model.GeneralUser
	require.NoError(t, db.First(&profile, donor.ID).Error)
	require.Equal(t, "500.00", profile.TotalDonated.StringFixed(2))

	// 属主公司累计
	var owner model.Startup
	require.NoError(t, db.First(&owner, startup.ID).Error)
	require.Equal(t, "500.00", owner.TotalRaised.StringFixed(2))

	// 捐赠不动钱包余额
	var wallet model.Wallet
	require.NoError(t, db.Where("general_user_id = ?", donor.ID).First(&wallet).Error)
	require.True(t, wallet.Balance.IsZero())
}

func TestDonateUniqueTransactionIDs(t *testing.T) {
	db := openTestDB(t)
	walletLogic := NewWalletLogic(db)

	startup := registerStartup(t, db, "founder", "Acme Inc")
	campaign := createCampaign(t, db, startup, "1000.00")
	donor := registerUser(t, db, "donor")

	first, _, err := walletLogic.Donate(donor.AccountID, campaign.ID, mustDecimal(t, "10.00"))
	require.NoError(t, err)
	second, _, err := walletLogic.Donate(donor.AccountID, campaign.ID, mustDecimal(t, "10.00"))
	require.NoError(t, err)
	require.NotEqual(t, first.TransactionID, second.TransactionID)
}

func TestDonateToInactiveCampaign(t *testing.T) {
	db := openTestDB(t)
	walletLogic := NewWalletLogic(db)

	startup := registerStartup(t, db, "founder", "Acme Inc")
	campaign := createCampaign(t, db, startup, "1000.00")
	require.NoError(t, db.Model(&model.Campaign{}).Where("id = ?", campaign.ID).
		Update("status", model.CampaignStatusPaused).Error)

	donor := registerUser(t, db, "donor")

	_, _, err := walletLogic.Donate(donor.AccountID, campaign.ID, mustDecimal(t, "100.00"))
	require.Error(t, err)
	require.True(t, apperr.Is(err, apperr.KindInvalidState))

	assertNoDonationSideEffects(t, db, campaign.ID, donor.ID, startup.ID)
}

func TestDonateNonPositiveAmount(t *testing.T) {
	db := openTestDB(t)
	walletLogic := NewWalletLogic(db)

	startup := registerStartup(t, db, "founder", "Acme Inc")
	campaign := createCampaign(t, db, startup, "1000.00")
	donor := registerUser(t, db, "donor")

	for _, amount := range []string{"0", "-5.00"} {
		_, _, err := walletLogic.Donate(donor.AccountID, campaign.ID, mustDecimal(t, amount))
		require.Error(t, err)
		require.True(t, apperr.Is(err, apperr.KindValidation))
	}

	assertNoDonationSideEffects(t, db, campaign.ID, donor.ID, startup.ID)
}

func TestDonateCampaignNotFound(t *testing.T) {
	db := openTestDB(t)

	donor := registerUser(t, db, "donor")
	_, _, err := NewWalletLogic(db).Donate(donor.AccountID, 12345, mustDecimal(t, "10.00"))
	require.Error(t, err)
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDonateWithoutProfile(t *testing.T) {
	db := openTestDB(t)

	startup := registerStartup(t, db, "founder", "Acme Inc")
	campaign := createCampaign(t, db, startup, "1000.00")

	account := &model.Account{Username: "bare", Email: "bare@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(account).Error)

	_, _, err := NewWalletLogic(db).Donate(account.ID, campaign.ID, mustDecimal(t, "10.00"))
	require.Error(t, err)
	require.True(t, apperr.Is(err, apperr.KindFailedPrecondition))
}

// 强制第 4 步（公司累计）失败，验证前三步全部回滚
func TestDonateRollsBackOnFailure(t *testing.T) {
	db := openTestDB(t)
	walletLogic := NewWalletLogic(db)

	startup := registerStartup(t, db, "founder", "Acme Inc")
	campaign := createCampaign(t, db, startup, "1000.00")
	donor := registerUser(t, db, "donor")

	// 直接删掉公司行，让 total_raised 自增落空
	require.NoError(t, db.Exec("PRAGMA foreign_keys = OFF").Error)
	require.NoError(t, db.Exec("DELETE FROM startup WHERE id = ?", startup.ID).Error)

	_, _, err := walletLogic.Donate(donor.AccountID, campaign.ID, mustDecimal(t, "100.00"))
	require.Error(t, err)

	// 全部回滚：没有流水，活动和捐赠人都没变
	var txnCount int64
	require.NoError(t, db.Model(&model.Transaction{}).Count(&txnCount).Error)
	require.Zero(t, txnCount)

	var got model.Campaign
	require.NoError(t, db.First(&got, campaign.ID).Error)
	require.True(t, got.CurrentAmount.IsZero())
	require.Zero(t, got.BackerCount)

	var profile model.GeneralUser
	require.NoError(t, db.First(&profile, donor.ID).Error)
	require.True(t, profile.TotalDonated.IsZero())
}

func TestConcurrentDonationsDoNotLoseUpdates(t *testing.T) {
	db := openTestDB(t)
	walletLogic := NewWalletLogic(db)

	startup := registerStartup(t, db, "founder", "Acme Inc")
	campaign := createCampaign(t, db, startup, "1000.00")
	d1 := registerUser(t, db, "donor1")
	d2 := registerUser(t, db, "donor2")

	amount := mustDecimal(t, "25.00")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, donor := range []*model.GeneralUser{d1, d2} {
		wg.Add(1)
		go func(i int, accountID uint) {
			defer wg.Done()
			_, _, errs[i] = walletLogic.Donate(accountID, campaign.ID, amount)
		}(i, donor.AccountID)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	var got model.Campaign
	require.NoError(t, db.First(&got, campaign.ID).Error)
	require.Equal(t, "50.00", got.CurrentAmount.StringFixed(2))
	require.Equal(t, 2, got.BackerCount)

	var owner model.Startup
	require.NoError(t, db.First(&owner, startup.ID).Error)
	require.Equal(t, "50.00", owner.TotalRaised.StringFixed(2))
}

func TestDepositAndWithdraw(t *testing.T) {
	db := openTestDB(t)
	walletLogic := NewWalletLogic(db)

	donor := registerUser(t, db, "donor")

	_, wallet, err := walletLogic.Deposit(donor.AccountID, mustDecimal(t, "100.00"))
	require.NoError(t, err)
	require.Equal(t, "100.00", wallet.Balance.StringFixed(2))

	txn, wallet, err := walletLogic.Withdraw(donor.AccountID, mustDecimal(t, "40.00"))
	require.NoError(t, err)
	require.Equal(t, "60.00", wallet.Balance.StringFixed(2))
	require.Equal(t, model.TransactionTypeWithdrawal, txn.Type)

	// 余额不足
	_, _, err = walletLogic.Withdraw(donor.AccountID, mustDecimal(t, "100.00"))
	require.Error(t, err)
	require.True(t, apperr.Is(err, apperr.KindValidation))

	transactions, err := walletLogic.Transactions(donor.AccountID)
	require.NoError(t, err)
	require.Len(t, transactions, 2)
}

func TestTransactionsOnlyOwn(t *testing.T) {
	db := openTestDB(t)
	walletLogic := NewWalletLogic(db)

	startup := registerStartup(t, db, "founder", "Acme Inc")
	campaign := createCampaign(t, db, startup, "1000.00")

	d1 := registerUser(t, db, "donor1")
	d2 := registerUser(t, db, "donor2")

	_, _, err := walletLogic.Donate(d1.AccountID, campaign.ID, mustDecimal(t, "10.00"))
	require.NoError(t, err)

	mine, err := walletLogic.Transactions(d1.AccountID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Campaign)
	require.Equal(t, "Test Product", mine[0].Campaign.ProductName)

	theirs, err := walletLogic.Transactions(d2.AccountID)
	require.NoError(t, err)
	require.Empty(t, theirs)
}

func assertNoDonationSideEffects(t *testing.T, db *gorm.DB, campaignID, profileID, startupID uint) {
	t.Helper()

	var txnCount int64
	require.NoError(t, db.Model(&model.Transaction{}).Count(&txnCount).Error)
	require.Zero(t, txnCount)

	var campaign model.Campaign
	require.NoError(t, db.First(&campaign, campaignID).Error)
	require.True(t, campaign.CurrentAmount.IsZero())
	require.Zero(t, campaign.BackerCount)

	var profile model.GeneralUser
	require.NoError(t, db.First(&profile, profileID).Error)
	require.True(t, profile.TotalDonated.IsZero())

	var startup model.Startup
	require.NoError(t, db.First(&startup, startupID).Error)
	require.True(t, startup.TotalRaised.IsZero())
}
