package session

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const accountKey = "account_id"

// SetAccount 登录成功后把账号 ID 写进会话
func SetAccount(c *gin.Context, accountID uint) error {
	s := sessions.Default(c)
	s.Clear()
	s.Set(accountKey, accountID)
	return s.Save()
}

// AccountID 取出当前会话的账号 ID
func AccountID(c *gin.Context) (uint, bool) {
	s := sessions.Default(c)
	v := s.Get(accountKey)
	if v == nil {
		return 0, false
	}
	id, ok := v.(uint)
	if !ok {
		// 会话损坏，直接清掉
		s.Clear()
		s.Save()
		return 0, false
	}
	return id, true
}

// Clear 退出登录
func Clear(c *gin.Context) {
	s := sessions.Default(c)
	s.Clear()
	s.Save()
}
