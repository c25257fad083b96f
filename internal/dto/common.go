package dto

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Accepted 勾选类字段（隐私协议、确认修改密码等）
// 接受 true/1/"1"/"yes"/"on"/"true"，其余一律视为未勾选
type Accepted bool

func parseAccepted(s string) Accepted {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// UnmarshalJSON 兼容布尔、数字与字符串
func (a *Accepted) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = false
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*a = Accepted(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = parseAccepted(s)
		return nil
	}
	*a = parseAccepted(string(data))
	return nil
}

// UnmarshalParam 供 gin 表单绑定使用
func (a *Accepted) UnmarshalParam(param string) error {
	*a = parseAccepted(param)
	return nil
}

// CountResponse 计数
type CountResponse struct {
	Count int64 `json:"count"`
}
