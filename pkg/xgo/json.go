package xgo

import (
	jsoniter "github.com/json-iterator/go"
)

// logJSONLimit 日志里单个 JSON 值的最大长度
const logJSONLimit = 1024

// ToJSON 用于日志输出，编码失败返回错误串，超长截断
func ToJSON(v any) string {
	b, err := jsoniter.ConfigFastest.Marshal(v)
	if err != nil {
		return err.Error()
	}
	if len(b) > logJSONLimit {
		return string(b[:logJSONLimit]) + "...(truncated)"
	}
	return string(b)
}
