// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
// 接口设计遵循依赖倒置原则，便于测试和解耦
package service

import (
	"pulse_chat_server/internal/dto/request"
	"pulse_chat_server/internal/dto/respond"
)

// AuthService 账号业务接口
// 处理注册、邮箱验证、登录、令牌、密码和资料管理
type AuthService interface {
	// Register 注册，落库后发送邮箱验证码
	Register(req request.RegisterRequest) (*respond.RegisterRespond, error)
	// VerifyEmail 校验邮箱验证码
	VerifyEmail(req request.VerifyEmailRequest) error
	// ResendVerification 重发验证码
	ResendVerification(email string) error
	// Login 密码登录，宽限期内的注销账号自动恢复
	Login(req request.LoginRequest) (*respond.LoginRespond, error)
	// RefreshToken 刷新双令牌，旧 Refresh Token 作废
	RefreshToken(refreshToken string) (*respond.TokenRespond, error)
	// Logout 登出，作废 Refresh Token
	Logout(userId string) error
	// ForgotPassword 发送密码重置邮件
	ForgotPassword(email string) error
	// ResetPassword 通过邮件令牌重置密码
	ResetPassword(req request.ResetPasswordRequest) error
	// GetProfile 查看资料，邮箱按可见性策略过滤
	GetProfile(viewerId, targetId string) (*respond.UserInfoRespond, error)
	// UpdateProfile 更新个人资料
	UpdateProfile(userId string, req request.UpdateProfileRequest) error
	// ChangePassword 修改密码
	ChangePassword(userId string, req request.ChangePasswordRequest) error
	// DeleteAccount 注销账号，进入恢复宽限期
	DeleteAccount(userId, password string) error
	// SearchUsers 按显示名/邮箱搜索用户
	SearchUsers(viewerId, keyword string) ([]respond.UserInfoRespond, error)
	// GetSidebarUsers 会话侧栏用户列表（除自己外的全部已验证用户）
	GetSidebarUsers(viewerId string) ([]respond.UserInfoRespond, error)
}

// FriendService 好友业务接口
// 处理好友申请状态机、好友列表和拉黑
type FriendService interface {
	// SendFriendRequest 发送好友申请，持久化后向接收方推事件
	SendFriendRequest(senderId string, req request.SendFriendRequestRequest) (*respond.FriendRequestRespond, error)
	// AcceptFriendRequest 接受申请，镜像写入双方好友列表
	AcceptFriendRequest(receiverId, requestUuid string) error
	// RejectFriendRequest 拒绝申请，直接删除记录
	RejectFriendRequest(receiverId, requestUuid string) error
	// CancelFriendRequest 申请方撤回申请
	CancelFriendRequest(senderId, requestUuid string) error
	// GetPendingRequests 我收到的待处理申请
	GetPendingRequests(receiverId string) ([]respond.FriendRequestRespond, error)
	// GetSentRequests 我发出的待处理申请
	GetSentRequests(senderId string) ([]respond.FriendRequestRespond, error)
	// GetFriendList 好友列表，附带最近消息并按消息时间倒序
	GetFriendList(userId string) ([]respond.FriendRespond, error)
	// RemoveFriend 删除好友，双向解除
	RemoveFriend(userId, friendId string) error
	// BlockUser 拉黑
	BlockUser(userId, targetId string) error
	// UnblockUser 取消拉黑
	UnblockUser(userId, targetId string) error
	// GetBlockedUsers 我拉黑的用户列表
	GetBlockedUsers(userId string) ([]respond.UserInfoRespond, error)
}

// GroupService 群组业务接口
// 群主即管理员，成员管理和改名仅群主可用
type GroupService interface {
	// CreateGroup 创建群组，创建者自动成为群主和成员
	CreateGroup(ownerId string, req request.CreateGroupRequest) (*respond.GroupRespond, error)
	// GetMyGroups 我加入的群组列表
	GetMyGroups(userId string) ([]respond.GroupRespond, error)
	// GetGroupMembers 群成员列表，仅成员可见
	GetGroupMembers(userId, groupUuid string) ([]respond.UserInfoRespond, error)
	// UpdateGroup 修改群名，仅群主
	UpdateGroup(userId string, req request.UpdateGroupRequest) error
	// AddMember 添加成员，仅群主
	AddMember(actorId string, req request.GroupMemberRequest) error
	// RemoveMember 移除成员，仅群主，群主本人不可被移除
	RemoveMember(actorId string, req request.GroupMemberRequest) error
	// LeaveGroup 退群，群主不可退（无所有权转移路径）
	LeaveGroup(userId, groupUuid string) error
}

// MessageService 消息业务接口
// 所有写操作先持久化，成功后再向在线目标推事件
type MessageService interface {
	// SendMessage 发送消息，单聊/群聊由请求字段二选一决定
	SendMessage(senderId string, req request.SendMessageRequest) (*respond.MessageRespond, error)
	// GetDirectMessages 拉取单聊历史，排除对查看者隐藏的行
	GetDirectMessages(viewerId, peerId string) ([]respond.MessageRespond, error)
	// GetGroupMessages 拉取群聊历史，仅成员可用
	GetGroupMessages(viewerId, groupUuid string) ([]respond.MessageRespond, error)
	// ReactToMessage 设置反应，每人每条消息一个，后写覆盖
	ReactToMessage(userId string, req request.ReactionRequest) error
	// RemoveReaction 移除反应
	RemoveReaction(userId, messageId string) error
	// UnsendMessage 撤回消息，整行硬删除，仅发送者可用
	UnsendMessage(userId, messageId string) error
	// HideMessage 仅对我删除
	HideMessage(userId, messageId string) error
	// MarkSeen 将 senderId 发来的消息全部置为已读并通知对方
	MarkSeen(viewerId, senderId string) error
	// DeleteConversation 删除与某人的全部聊天记录
	DeleteConversation(userId, peerId string) error
}

// AdminService 管理员业务接口
type AdminService interface {
	// PublishVersion 发布客户端版本
	PublishVersion(req request.PublishVersionRequest) error
	// ResetUserPassword 重置用户密码并作废其登录态
	ResetUserPassword(req request.ResetUserPasswordRequest) error
	// ListUsers 用户列表（管理后台）
	ListUsers(keyword string) ([]respond.UserInfoRespond, error)
}

// VersionService 版本检查接口
type VersionService interface {
	// GetLatestVersion 最新版本信息
	GetLatestVersion() (*respond.AppVersionRespond, error)
}
