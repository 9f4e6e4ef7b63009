package constants

import "time"

const (
	CHANNEL_SIZE               = 100 // 通道大小（连接发送缓冲 / broker 转发缓冲）
	REDIS_TIMEOUT              = 1   // redis 缓存默认过期时间（分钟）
	REFRESH_TOKEN_EXPIRY_HOURS = 168 // Refresh Token 有效期（小时），168小时 = 7天

	// DELETE_GRACE_PERIOD 账号注销后的可恢复窗口
	// 窗口内登录自动恢复，窗口外由定时任务永久清除
	DELETE_GRACE_PERIOD = 7 * 24 * time.Hour

	// VERIFY_CODE_EXPIRY 邮箱验证码有效期
	VERIFY_CODE_EXPIRY = 15 * time.Minute

	// RESET_TOKEN_EXPIRY 密码重置令牌有效期
	RESET_TOKEN_EXPIRY = time.Hour

	// REFRESH_TOKEN_KEY_PREFIX Redis 中 Refresh Token ID 的键前缀
	REFRESH_TOKEN_KEY_PREFIX = "user_token:"
)
