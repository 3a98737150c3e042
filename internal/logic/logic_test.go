package logic

import (
	"testing"

	"github.com/blues/fundflow/internal/database"
	"github.com/blues/fundflow/internal/model"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// openTestDB 内存 sqlite，表结构和生产一致
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		NamingStrategy: &schema.NamingStrategy{
			SingularTable: true,
		},
		TranslateError: true,
	})
	require.NoError(t, err)

	// 内存库每个连接各自独立，压成单连接，顺便串行化并发事务
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func registerUser(t *testing.T, db *gorm.DB, username string) *model.GeneralUser {
	t.Helper()

	userLogic := NewUserLogic(db)
	account, err := userLogic.Register(RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	profile, err := userLogic.Profile(account.ID)
	require.NoError(t, err)
	return profile
}

func registerStartup(t *testing.T, db *gorm.DB, username, company string) *model.Startup {
	t.Helper()

	profile := registerUser(t, db, username)
	startup, err := NewStartupLogic(db).RegisterStartup(profile.AccountID, StartupRegisterInput{
		CompanyName: company,
		Category:    model.CategoryTech,
		Description: "test startup",
	})
	require.NoError(t, err)
	return startup
}

func createCampaign(t *testing.T, db *gorm.DB, startup *model.Startup, goal string) *model.Campaign {
	t.Helper()

	campaign, err := NewCampaignLogic(db).CreateCampaign(startup.AccountID, CampaignCreateInput{
		ProductName: "Test Product",
		ProductType: model.ProductTypePhysical,
		Description: "a product",
		GoalAmount:  mustDecimal(t, goal),
	})
	require.NoError(t, err)
	return campaign
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
