// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"time"

	"pulse_chat_server/internal/model"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	// FindByUuid 根据 UUID 查找用户
	FindByUuid(uuid string) (*model.User, error)
	// FindByEmail 根据邮箱查找用户（含已注销账号，登录流程需要判断恢复期）
	FindByEmail(email string) (*model.User, error)
	// FindByResetToken 根据密码重置令牌查找用户
	FindByResetToken(token string) (*model.User, error)
	// FindAllExcept 查找除指定用户外的所有未注销用户
	FindAllExcept(excludeUuid string) ([]model.User, error)
	// FindByUuids 批量根据 UUID 查找用户
	FindByUuids(uuids []string) ([]model.User, error)
	// Search 按显示名/邮箱模糊查找（排除自己和已注销账号）
	Search(query, excludeUuid string) ([]model.User, error)
	// Create 创建新用户
	Create(user *model.User) error
	// Update 保存用户信息
	Update(user *model.User) error
	// UpdateLastActive 回写最近活跃时间
	UpdateLastActive(uuid string, t time.Time) error
	// FindDeletedBefore 查找注销时间早于 t 的账号（供清理任务使用）
	FindDeletedBefore(t time.Time) ([]model.User, error)
	// HardDeleteByUuid 永久删除用户行
	HardDeleteByUuid(uuid string) error
}

// FriendshipRepository 好友关系数据访问接口
// 关系恒为对称，成对写入/删除
type FriendshipRepository interface {
	// CreatePair 同一事务内写入 (a,b) 与 (b,a) 两行
	CreatePair(a, b string) error
	// DeletePair 删除双向关系
	DeletePair(a, b string) error
	// Exists 是否已是好友
	Exists(a, b string) (bool, error)
	// FindFriendUuids 查找某用户的全部好友 UUID
	FindFriendUuids(userId string) ([]string, error)
	// DeleteAllFor 删除涉及指定用户的所有关系行（账号清理用）
	DeleteAllFor(userUuid string) error
}

// UserBlockRepository 拉黑关系数据访问接口
type UserBlockRepository interface {
	Create(userId, blockedId string) error
	Delete(userId, blockedId string) error
	Exists(userId, blockedId string) (bool, error)
	FindBlockedUuids(userId string) ([]string, error)
	// DeleteAllFor 删除指定用户作为任一方的所有拉黑行（账号清理用）
	DeleteAllFor(userUuid string) error
}

// FriendRequestRepository 好友申请数据访问接口
type FriendRequestRepository interface {
	Create(req *model.FriendRequest) error
	FindByUuid(uuid string) (*model.FriendRequest, error)
	// FindPendingBetween 查找无序对 (a,b) 之间的 pending 申请（双向）
	FindPendingBetween(a, b string) (*model.FriendRequest, error)
	FindPendingByReceiver(receiverId string) ([]model.FriendRequest, error)
	FindPendingBySender(senderId string) ([]model.FriendRequest, error)
	UpdateStatus(uuid string, status int8) error
	// Accept 同一事务内把申请置为已通过并写入 (sender,receiver) 双向好友关系
	// 任一步失败整体回滚，申请保持 pending
	Accept(uuid, senderId, receiverId string) error
	// HardDelete 删除申请行（拒绝/取消，允许立即重新申请）
	HardDelete(uuid string) error
	// HardDeleteAllFor 删除涉及指定用户的所有申请（账号清理用）
	HardDeleteAllFor(userUuid string) error
}

// GroupRepository 群组数据访问接口
type GroupRepository interface {
	Create(group *model.Group) error
	FindByUuid(uuid string) (*model.Group, error)
	FindByUuids(uuids []string) ([]model.Group, error)
	Update(group *model.Group) error
}

// GroupMemberRepository 群成员数据访问接口
type GroupMemberRepository interface {
	Create(member *model.GroupMember) error
	Delete(groupUuid, userUuid string) error
	IsMember(groupUuid, userUuid string) (bool, error)
	// FindMemberUuids 群成员 UUID 列表（事件扇出依赖此查询）
	FindMemberUuids(groupUuid string) ([]string, error)
	// FindGroupUuidsByUser 用户加入的群 UUID 列表
	FindGroupUuidsByUser(userUuid string) ([]string, error)
	DeleteAllForUser(userUuid string) error
}

// MessageRepository 消息数据访问接口
type MessageRepository interface {
	Create(message *model.Message) error
	FindByUuid(uuid int64) (*model.Message, error)
	// FindDirect 双向查找两人之间的消息，排除 viewer 已隐藏的行
	FindDirect(a, b, viewer string) ([]model.Message, error)
	// FindByGroup 查找群消息，排除 viewer 已隐藏的行
	FindByGroup(groupUuid, viewer string) ([]model.Message, error)
	// FindLastDirect 两人会话的最新一条消息，无消息时返回 CodeNotFound
	FindLastDirect(a, b string) (*model.Message, error)
	// MarkSeen 将 sender->receiver 的全部未读消息置为已读
	MarkSeen(senderId, receiverId string, at time.Time) error
	HardDelete(uuid int64) error
	// HardDeleteConversation 删除两人之间的全部消息
	HardDeleteConversation(a, b string) (int64, error)
	// HardDeleteAllFor 删除某用户发送或接收的全部消息（账号清理用）
	HardDeleteAllFor(userUuid string) error
	// UpsertReaction 写入/覆盖某用户对某消息的反应（last-write-wins）
	UpsertReaction(messageUuid int64, userUuid, emoji string) error
	DeleteReaction(messageUuid int64, userUuid string) error
	// FindReactions 批量查询消息的反应列表
	FindReactions(messageUuids []int64) ([]model.MessageReaction, error)
	// Hide 将消息标记为对某用户隐藏（仅对我删除），重复调用幂等
	Hide(messageUuid int64, userUuid string) error
}

// AppVersionRepository 版本信息数据访问接口
type AppVersionRepository interface {
	FindLatest() (*model.AppVersion, error)
	Upsert(version *model.AppVersion) error
}

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db            *gorm.DB
	User          UserRepository
	Friendship    FriendshipRepository
	Block         UserBlockRepository
	FriendRequest FriendRequestRepository
	Group         GroupRepository
	GroupMember   GroupMemberRepository
	Message       MessageRepository
	AppVersion    AppVersionRepository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:            db,
		User:          NewUserRepository(db),
		Friendship:    NewFriendshipRepository(db),
		Block:         NewUserBlockRepository(db),
		FriendRequest: NewFriendRequestRepository(db),
		Group:         NewGroupRepository(db),
		GroupMember:   NewGroupMemberRepository(db),
		Message:       NewMessageRepository(db),
		AppVersion:    NewAppVersionRepository(db),
	}
}
