package handler

import (
	"net/http"

	"github.com/blues/fundflow/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type WalletHandler struct {
	walletLogic *logic.WalletLogic
}

func NewWalletHandler(db *gorm.DB) *WalletHandler {
	return &WalletHandler{
		walletLogic: logic.NewWalletLogic(db),
	}
}

// Donate 捐赠入口，见 logic.WalletLogic.Donate
func (h *WalletHandler) Donate(c *gin.Context) {
	var req DonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	txn, campaign, err := h.walletLogic.Donate(currentAccountID(c), req.CampaignID, req.Amount)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Donation successful", DonationResponse{
		TransactionID:    txn.TransactionID,
		Amount:           txn.Amount.StringFixed(2),
		Campaign:         campaign.ProductName,
		CampaignProgress: campaign.ProgressPercentage().StringFixed(2),
	})
}

// Deposit 钱包充值
func (h *WalletHandler) Deposit(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	txn, wallet, err := h.walletLogic.Deposit(currentAccountID(c), req.Amount)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Deposit successful", gin.H{
		"transaction_id": txn.TransactionID,
		"amount":         txn.Amount.StringFixed(2),
		"balance":        wallet.Balance.StringFixed(2),
	})
}

// Withdraw 钱包提现，余额不足直接拒绝
func (h *WalletHandler) Withdraw(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	txn, wallet, err := h.walletLogic.Withdraw(currentAccountID(c), req.Amount)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Withdrawal successful", gin.H{
		"transaction_id": txn.TransactionID,
		"amount":         txn.Amount.StringFixed(2),
		"balance":        wallet.Balance.StringFixed(2),
	})
}

// MyWallet 当前用户的钱包
func (h *WalletHandler) MyWallet(c *gin.Context) {
	wallet, err := h.walletLogic.MyWallet(currentAccountID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", newWalletResponse(wallet))
}

// Transactions 当前用户的流水
func (h *WalletHandler) Transactions(c *gin.Context) {
	transactions, err := h.walletLogic.Transactions(currentAccountID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", newTransactionResponses(transactions))
}
