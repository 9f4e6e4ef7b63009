// Package email_visibility_enum 定义邮箱可见性策略
package email_visibility_enum

const (
	Everyone    = "everyone"     // 所有人可见
	FriendsOnly = "friends_only" // 仅好友可见
	OnlyMe      = "only_me"      // 仅自己可见
)

// Valid 校验策略取值是否合法
func Valid(v string) bool {
	switch v {
	case Everyone, FriendsOnly, OnlyMe:
		return true
	}
	return false
}
