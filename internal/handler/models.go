package handler

import (
	"time"

	"github.com/blues/fundflow/internal/model"
	"github.com/shopspring/decimal"
)

// 请求模型

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username          string `json:"username" binding:"required"`
	Email             string `json:"email" binding:"required,email"`
	Password          string `json:"password" binding:"required"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	PhoneNumber       string `json:"phone_number"`
	CitizenshipNumber string `json:"citizenship_number"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// StartupRegisterRequest 档案升级请求
type StartupRegisterRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description" binding:"required"`
	Website     string `json:"website"`
}

// CampaignCreateRequest 创建活动请求
type CampaignCreateRequest struct {
	ProductName         string          `json:"product_name" binding:"required"`
	ProductType         string          `json:"product_type" binding:"required"`
	Description         string          `json:"description"`
	DetailedDescription string          `json:"detailed_description"`
	GoalAmount          decimal.Decimal `json:"goal_amount" binding:"required"`
	EarlyAccessPrice    decimal.Decimal `json:"early_access_price"`
	EstimatedDelivery   *time.Time      `json:"estimated_delivery"`
	EndDate             *time.Time      `json:"end_date"`
}

// CampaignUpdateRequest 更新活动请求，字段缺省表示不改
type CampaignUpdateRequest struct {
	ProductName         *string          `json:"product_name"`
	ProductType         *string          `json:"product_type"`
	Description         *string          `json:"description"`
	DetailedDescription *string          `json:"detailed_description"`
	GoalAmount          *decimal.Decimal `json:"goal_amount"`
	EarlyAccessPrice    *decimal.Decimal `json:"early_access_price"`
	EstimatedDelivery   *time.Time       `json:"estimated_delivery"`
	EndDate             *time.Time       `json:"end_date"`
	Status              *string          `json:"status"`
}

// DonationRequest 捐赠请求
type DonationRequest struct {
	CampaignID uint            `json:"campaign_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

// AmountRequest 充值 / 提现请求
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// 响应模型

// AccountResponse 账号响应
type AccountResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// GeneralUserResponse 用户档案响应
type GeneralUserResponse struct {
	ID                uint            `json:"id"`
	Account           AccountResponse `json:"account"`
	PhoneNumber       string          `json:"phone_number"`
	CitizenshipNumber *string         `json:"citizenship_number"`
	Address           string          `json:"address"`
	City              string          `json:"city"`
	Country           string          `json:"country"`
	TotalDonated      string          `json:"total_donated"`
	CreatedAt         time.Time       `json:"created_at"`
}

// StartupResponse 公司列表项
type StartupResponse struct {
	ID             uint      `json:"id"`
	CompanyName    string    `json:"company_name"`
	Category       string    `json:"category"`
	Description    string    `json:"description"`
	Website        string    `json:"website"`
	TotalRequested string    `json:"total_requested"`
	TotalRaised    string    `json:"total_raised"`
	IsVerified     bool      `json:"is_verified"`
	CreatedAt      time.Time `json:"created_at"`
}

// StartupDetailResponse 公司详情，含账号信息和进行中活动数
type StartupDetailResponse struct {
	StartupResponse
	Account        AccountResponse `json:"account"`
	CampaignsCount int64           `json:"campaigns_count"`
}

// CampaignListItemResponse 活动列表项，缩减字段加计算进度
type CampaignListItemResponse struct {
	ID                 uint      `json:"id"`
	ProductName        string    `json:"product_name"`
	ProductType        string    `json:"product_type"`
	Description        string    `json:"description"`
	GoalAmount         string    `json:"goal_amount"`
	CurrentAmount      string    `json:"current_amount"`
	EarlyAccessPrice   string    `json:"early_access_price"`
	Status             string    `json:"status"`
	BackerCount        int       `json:"backer_count"`
	CreatedAt          time.Time `json:"created_at"`
	StartupName        string    `json:"startup_name"`
	ProgressPercentage string    `json:"progress_percentage"`
}

// CampaignDetailResponse 活动详情，全量字段加嵌套公司
type CampaignDetailResponse struct {
	CampaignListItemResponse
	DetailedDescription string          `json:"detailed_description"`
	EstimatedDelivery   *time.Time      `json:"estimated_delivery"`
	EndDate             *time.Time      `json:"end_date"`
	UpdatedAt           time.Time       `json:"updated_at"`
	Startup             StartupResponse `json:"startup"`
}

// WalletResponse 钱包响应
type WalletResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransactionResponse 流水响应
type TransactionResponse struct {
	ID            uint      `json:"id"`
	TransactionID string    `json:"transaction_id"`
	Amount        string    `json:"amount"`
	Type          string    `json:"transaction_type"`
	Status        string    `json:"status"`
	Description   string    `json:"description"`
	CampaignID    *uint     `json:"campaign_id"`
	CampaignName  string    `json:"campaign_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// DonationResponse 捐赠响应
type DonationResponse struct {
	TransactionID    string `json:"transaction_id"`
	Amount           string `json:"amount"`
	Campaign         string `json:"campaign"`
	CampaignProgress string `json:"campaign_progress"`
}

// 模型到响应的转换

func newAccountResponse(a model.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}

func newGeneralUserResponse(u *model.GeneralUser) GeneralUserResponse {
	return GeneralUserResponse{
		ID:                u.ID,
		Account:           newAccountResponse(u.Account),
		PhoneNumber:       u.PhoneNumber,
		CitizenshipNumber: u.CitizenshipNumber,
		Address:           u.Address,
		City:              u.City,
		Country:           u.Country,
		TotalDonated:      u.TotalDonated.StringFixed(2),
		CreatedAt:         u.CreatedAt,
	}
}

func newStartupResponse(s model.Startup) StartupResponse {
	return StartupResponse{
		ID:             s.ID,
		CompanyName:    s.CompanyName,
		Category:       string(s.Category),
		Description:    s.Description,
		Website:        s.Website,
		TotalRequested: s.TotalRequested.StringFixed(2),
		TotalRaised:    s.TotalRaised.StringFixed(2),
		IsVerified:     s.IsVerified,
		CreatedAt:      s.CreatedAt,
	}
}

func newStartupDetailResponse(s *model.Startup, campaignsCount int64) StartupDetailResponse {
	return StartupDetailResponse{
		StartupResponse: newStartupResponse(*s),
		Account:         newAccountResponse(s.Account),
		CampaignsCount:  campaignsCount,
	}
}

func newCampaignListItem(c model.Campaign) CampaignListItemResponse {
	return CampaignListItemResponse{
		ID:                 c.ID,
		ProductName:        c.ProductName,
		ProductType:        string(c.ProductType),
		Description:        c.Description,
		GoalAmount:         c.GoalAmount.StringFixed(2),
		CurrentAmount:      c.CurrentAmount.StringFixed(2),
		EarlyAccessPrice:   c.EarlyAccessPrice.StringFixed(2),
		Status:             string(c.Status),
		BackerCount:        c.BackerCount,
		CreatedAt:          c.CreatedAt,
		StartupName:        c.Startup.CompanyName,
		ProgressPercentage: c.ProgressPercentage().StringFixed(2),
	}
}

func newCampaignListItems(campaigns []model.Campaign) []CampaignListItemResponse {
	items := make([]CampaignListItemResponse, 0, len(campaigns))
	for _, c := range campaigns {
		items = append(items, newCampaignListItem(c))
	}
	return items
}

func newCampaignDetail(c *model.Campaign) CampaignDetailResponse {
	return CampaignDetailResponse{
		CampaignListItemResponse: newCampaignListItem(*c),
		DetailedDescription:      c.DetailedDescription,
		EstimatedDelivery:        c.EstimatedDelivery,
		EndDate:                  c.EndDate,
		UpdatedAt:                c.UpdatedAt,
		Startup:                  newStartupResponse(c.Startup),
	}
}

func newWalletResponse(w *model.Wallet) WalletResponse {
	return WalletResponse{
		ID:        w.ID,
		Username:  w.GeneralUser.Account.Username,
		Balance:   w.Balance.StringFixed(2),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func newTransactionResponse(t model.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:            t.ID,
		TransactionID: t.TransactionID,
		Amount:        t.Amount.StringFixed(2),
		Type:          string(t.Type),
		Status:        string(t.Status),
		Description:   t.Description,
		CampaignID:    t.CampaignID,
		CreatedAt:     t.CreatedAt,
	}
	if t.Campaign != nil {
		resp.CampaignName = t.Campaign.ProductName
	}
	return resp
}

func newTransactionResponses(transactions []model.Transaction) []TransactionResponse {
	items := make([]TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		items = append(items, newTransactionResponse(t))
	}
	return items
}
