// Package message_status_enum 定义消息投递状态
package message_status_enum

const (
	Sent int8 = iota // 已发送（已落库）
	Seen             // 对方已读
)

// Text 返回状态的对外字符串表示（客户端契约字段）
func Text(status int8) string {
	if status == Seen {
		return "seen"
	}
	return "sent"
}
