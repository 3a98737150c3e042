package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blues/fundflow/internal/config"
	"github.com/blues/fundflow/internal/database"
	"github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		NamingStrategy: &schema.NamingStrategy{
			SingularTable: true,
		},
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Session: config.SessionConfig{Secret: "test-secret", Name: "fundflow"},
	}
	return Setup(db, cfg), db
}

func doJSON(r *gin.Engine, method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func register(t *testing.T, r *gin.Engine, username string) {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/users/register", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func login(t *testing.T, r *gin.Engine, username string) []*http.Cookie {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/users/login", gin.H{
		"username": username,
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func TestHealth(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(r, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestDonationFlow(t *testing.T) {
	r, _ := setupTestRouter(t)

	register(t, r, "founder")
	register(t, r, "donor")

	founderCookies := login(t, r, "founder")
	donorCookies := login(t, r, "donor")

	// 档案升级
	w := doJSON(r, http.MethodPost, "/users/startup/register", gin.H{
		"company_name": "Acme Inc",
		"category":     "tech",
		"description":  "we make everything",
	}, founderCookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// 创建活动
	w = doJSON(r, http.MethodPost, "/campaigns", gin.H{
		"product_name": "Gadget",
		"product_type": "physical",
		"description":  "a gadget",
		"goal_amount":  "25000.00",
	}, founderCookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID                 uint   `json:"id"`
		ProgressPercentage string `json:"progress_percentage"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))
	require.NotZero(t, created.ID)
	require.Equal(t, "0.00", created.ProgressPercentage)

	// 匿名能看到进行中的活动
	w = doJSON(r, http.MethodGet, "/campaigns", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []json.RawMessage
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &list))
	require.Len(t, list, 1)

	// 未登录不能捐
	w = doJSON(r, http.MethodPost, "/wallet/donate", gin.H{
		"campaign_id": created.ID,
		"amount":      "500.00",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// 捐赠
	w = doJSON(r, http.MethodPost, "/wallet/donate", gin.H{
		"campaign_id": created.ID,
		"amount":      "500.00",
	}, donorCookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var donation struct {
		TransactionID    string `json:"transaction_id"`
		Amount           string `json:"amount"`
		Campaign         string `json:"campaign"`
		CampaignProgress string `json:"campaign_progress"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &donation))
	require.NotEmpty(t, donation.TransactionID)
	require.Equal(t, "500.00", donation.Amount)
	require.Equal(t, "Gadget", donation.Campaign)
	require.Equal(t, "2.00", donation.CampaignProgress)

	// 捐赠人累计金额
	w = doJSON(r, http.MethodGet, "/users/me", nil, donorCookies)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		TotalDonated string `json:"total_donated"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &me))
	require.Equal(t, "500.00", me.TotalDonated)

	// 流水可见
	w = doJSON(r, http.MethodGet, "/wallet/transactions/my_transactions", nil, donorCookies)
	require.Equal(t, http.StatusOK, w.Code)
	var transactions []struct {
		Type   string `json:"transaction_type"`
		Amount string `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &transactions))
	require.Len(t, transactions, 1)
	require.Equal(t, "donation", transactions[0].Type)
}

func TestCampaignSoftDeleteVisibility(t *testing.T) {
	r, _ := setupTestRouter(t)

	register(t, r, "founder")
	register(t, r, "donor")
	founderCookies := login(t, r, "founder")
	donorCookies := login(t, r, "donor")

	w := doJSON(r, http.MethodPost, "/users/startup/register", gin.H{
		"company_name": "Acme Inc",
		"category":     "tech",
		"description":  "we make everything",
	}, founderCookies)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/campaigns", gin.H{
		"product_name": "Gadget",
		"product_type": "physical",
		"goal_amount":  "1000.00",
	}, founderCookies)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))
	path := fmt.Sprintf("/campaigns/%d", created.ID)

	// 非公司账号删不了
	w = doJSON(r, http.MethodDelete, path, nil, donorCookies)
	require.Equal(t, http.StatusForbidden, w.Code)

	// 属主软删除
	w = doJSON(r, http.MethodDelete, path, nil, founderCookies)
	require.Equal(t, http.StatusOK, w.Code)

	// 属主仍能按 ID 取到，匿名 404，公开列表为空
	w = doJSON(r, http.MethodGet, path, nil, founderCookies)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &detail))
	require.Equal(t, "cancelled", detail.Status)

	w = doJSON(r, http.MethodGet, path, nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodGet, "/campaigns", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []json.RawMessage
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &list))
	require.Empty(t, list)
}

func TestStartupStatsPublic(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(r, http.MethodGet, "/users/startups/stats", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		TotalStartups int64  `json:"total_startups"`
		TotalFunded   string `json:"total_funded"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &stats))
	require.Zero(t, stats.TotalStartups)
	require.Equal(t, "0.00", stats.TotalFunded)
}

func TestLogoutClearsSession(t *testing.T) {
	r, _ := setupTestRouter(t)

	register(t, r, "alice")
	cookies := login(t, r, "alice")

	w := doJSON(r, http.MethodGet, "/users/me", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/users/logout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := w.Result().Cookies()

	w = doJSON(r, http.MethodGet, "/users/me", nil, cleared)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
