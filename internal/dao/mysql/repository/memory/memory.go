// Package memory 提供各 Repository 接口的内存实现
// 仅用于 Service 层单元测试，不依赖真实数据库
// 错误语义与 mysql 实现保持一致：未命中返回 CodeNotFound
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"pulse_chat_server/internal/dao/mysql/repository"
	"pulse_chat_server/internal/model"
	"pulse_chat_server/pkg/errorx"
)

// NewRepositories 创建一组全内存的 Repository
func NewRepositories() *repository.Repositories {
	friendships := &friendshipRepo{pairs: make(map[[2]string]bool)}
	return &repository.Repositories{
		User:          &userRepo{users: make(map[string]*model.User)},
		Friendship:    friendships,
		Block:         &blockRepo{pairs: make(map[[2]string]bool)},
		FriendRequest: &friendRequestRepo{requests: make(map[string]*model.FriendRequest), friendships: friendships},
		Group:         &groupRepo{groups: make(map[string]*model.Group)},
		GroupMember:   &groupMemberRepo{members: make(map[[2]string]bool)},
		Message:       &messageRepo{messages: make(map[int64]*model.Message), reactions: make(map[msgUserKey]string), hides: make(map[msgUserKey]bool)},
		AppVersion:    &appVersionRepo{},
	}
}

func notFound(msg string) error {
	return errorx.New(errorx.CodeNotFound, msg)
}

// ---------- user ----------

type userRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func (r *userRepo) FindByUuid(uuid string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[uuid]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, notFound("用户不存在")
}

func (r *userRepo) FindByEmail(email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("用户不存在")
}

func (r *userRepo) FindByResetToken(token string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if token != "" && u.ResetToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("重置令牌无效")
}

func (r *userRepo) FindAllExcept(excludeUuid string) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		if u.Uuid != excludeUuid && !u.IsDeleted {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *userRepo) FindByUuids(uuids []string) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.User, 0, len(uuids))
	for _, uuid := range uuids {
		if u, ok := r.users[uuid]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *userRepo) Search(query, excludeUuid string) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		if u.Uuid == excludeUuid || u.IsDeleted {
			continue
		}
		if strings.Contains(u.FullName, query) || strings.Contains(u.Email, query) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *userRepo) Create(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// 与 GORM 的 BeforeSave Hook 行为保持一致
	if err := user.BeforeSave(nil); err != nil {
		return err
	}
	cp := *user
	r.users[user.Uuid] = &cp
	return nil
}

func (r *userRepo) Update(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := user.BeforeSave(nil); err != nil {
		return err
	}
	cp := *user
	r.users[user.Uuid] = &cp
	return nil
}

func (r *userRepo) UpdateLastActive(uuid string, t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[uuid]; ok {
		u.LastActiveAt.Time = t
		u.LastActiveAt.Valid = true
	}
	return nil
}

func (r *userRepo) FindDeletedBefore(t time.Time) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		if u.IsDeleted && u.AccountDeletedAt.Valid && u.AccountDeletedAt.Time.Before(t) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *userRepo) HardDeleteByUuid(uuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, uuid)
	return nil
}

// ---------- friendship ----------

type friendshipRepo struct {
	mu    sync.Mutex
	pairs map[[2]string]bool
}

func (r *friendshipRepo) CreatePair(a, b string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pairs[[2]string{a, b}] = true
	r.pairs[[2]string{b, a}] = true
	return nil
}

func (r *friendshipRepo) DeletePair(a, b string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pairs, [2]string{a, b})
	delete(r.pairs, [2]string{b, a})
	return nil
}

func (r *friendshipRepo) Exists(a, b string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pairs[[2]string{a, b}], nil
}

func (r *friendshipRepo) FindFriendUuids(userId string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for pair := range r.pairs {
		if pair[0] == userId {
			out = append(out, pair[1])
		}
	}
	return out, nil
}

func (r *friendshipRepo) DeleteAllFor(userUuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for pair := range r.pairs {
		if pair[0] == userUuid || pair[1] == userUuid {
			delete(r.pairs, pair)
		}
	}
	return nil
}

// ---------- block ----------

type blockRepo struct {
	mu    sync.Mutex
	pairs map[[2]string]bool
}

func (r *blockRepo) Create(userId, blockedId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pairs[[2]string{userId, blockedId}] = true
	return nil
}

func (r *blockRepo) Delete(userId, blockedId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pairs, [2]string{userId, blockedId})
	return nil
}

func (r *blockRepo) Exists(userId, blockedId string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pairs[[2]string{userId, blockedId}], nil
}

func (r *blockRepo) FindBlockedUuids(userId string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for pair := range r.pairs {
		if pair[0] == userId {
			out = append(out, pair[1])
		}
	}
	return out, nil
}

func (r *blockRepo) DeleteAllFor(userUuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for pair := range r.pairs {
		if pair[0] == userUuid || pair[1] == userUuid {
			delete(r.pairs, pair)
		}
	}
	return nil
}

// ---------- friend request ----------

type friendRequestRepo struct {
	mu          sync.Mutex
	requests    map[string]*model.FriendRequest
	friendships *friendshipRepo
}

func (r *friendRequestRepo) Create(req *model.FriendRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *req
	r.requests[req.Uuid] = &cp
	return nil
}

func (r *friendRequestRepo) FindByUuid(uuid string) (*model.FriendRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fr, ok := r.requests[uuid]; ok {
		cp := *fr
		return &cp, nil
	}
	return nil, notFound("好友申请不存在")
}

func (r *friendRequestRepo) FindPendingBetween(a, b string) (*model.FriendRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, fr := range r.requests {
		if fr.Status != model.FriendRequestPending {
			continue
		}
		if (fr.SenderId == a && fr.ReceiverId == b) || (fr.SenderId == b && fr.ReceiverId == a) {
			cp := *fr
			return &cp, nil
		}
	}
	return nil, notFound("无待处理申请")
}

func (r *friendRequestRepo) FindPendingByReceiver(receiverId string) ([]model.FriendRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.FriendRequest
	for _, fr := range r.requests {
		if fr.ReceiverId == receiverId && fr.Status == model.FriendRequestPending {
			out = append(out, *fr)
		}
	}
	return out, nil
}

func (r *friendRequestRepo) FindPendingBySender(senderId string) ([]model.FriendRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.FriendRequest
	for _, fr := range r.requests {
		if fr.SenderId == senderId && fr.Status == model.FriendRequestPending {
			out = append(out, *fr)
		}
	}
	return out, nil
}

func (r *friendRequestRepo) UpdateStatus(uuid string, status int8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	fr, ok := r.requests[uuid]
	if !ok {
		return notFound("好友申请不存在")
	}
	fr.Status = status
	return nil
}

func (r *friendRequestRepo) Accept(uuid, senderId, receiverId string) error {
	r.mu.Lock()
	fr, ok := r.requests[uuid]
	if !ok {
		r.mu.Unlock()
		return notFound("好友申请不存在")
	}
	fr.Status = model.FriendRequestAccepted
	r.mu.Unlock()
	return r.friendships.CreatePair(senderId, receiverId)
}

func (r *friendRequestRepo) HardDelete(uuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.requests, uuid)
	return nil
}

func (r *friendRequestRepo) HardDeleteAllFor(userUuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for uuid, fr := range r.requests {
		if fr.SenderId == userUuid || fr.ReceiverId == userUuid {
			delete(r.requests, uuid)
		}
	}
	return nil
}

// ---------- group ----------

type groupRepo struct {
	mu     sync.Mutex
	groups map[string]*model.Group
}

func (r *groupRepo) Create(group *model.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *group
	r.groups[group.Uuid] = &cp
	return nil
}

func (r *groupRepo) FindByUuid(uuid string) (*model.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.groups[uuid]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, notFound("群组不存在")
}

func (r *groupRepo) FindByUuids(uuids []string) ([]model.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Group, 0, len(uuids))
	for _, uuid := range uuids {
		if g, ok := r.groups[uuid]; ok {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *groupRepo) Update(group *model.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *group
	r.groups[group.Uuid] = &cp
	return nil
}

// ---------- group member ----------

type groupMemberRepo struct {
	mu      sync.Mutex
	members map[[2]string]bool
}

func (r *groupMemberRepo) Create(member *model.GroupMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[[2]string{member.GroupUuid, member.UserUuid}] = true
	return nil
}

func (r *groupMemberRepo) Delete(groupUuid, userUuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, [2]string{groupUuid, userUuid})
	return nil
}

func (r *groupMemberRepo) IsMember(groupUuid, userUuid string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.members[[2]string{groupUuid, userUuid}], nil
}

func (r *groupMemberRepo) FindMemberUuids(groupUuid string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for pair := range r.members {
		if pair[0] == groupUuid {
			out = append(out, pair[1])
		}
	}
	return out, nil
}

func (r *groupMemberRepo) FindGroupUuidsByUser(userUuid string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for pair := range r.members {
		if pair[1] == userUuid {
			out = append(out, pair[0])
		}
	}
	return out, nil
}

func (r *groupMemberRepo) DeleteAllForUser(userUuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for pair := range r.members {
		if pair[1] == userUuid {
			delete(r.members, pair)
		}
	}
	return nil
}

// ---------- message ----------

// msgUserKey (消息, 用户) 复合键
type msgUserKey struct {
	msg  int64
	user string
}

type messageRepo struct {
	mu        sync.Mutex
	messages  map[int64]*model.Message
	reactions map[msgUserKey]string
	hides     map[msgUserKey]bool
}

func (r *messageRepo) Create(message *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	cp := *message
	r.messages[message.Uuid] = &cp
	return nil
}

func (r *messageRepo) FindByUuid(uuid int64) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.messages[uuid]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, notFound("消息不存在")
}

func (r *messageRepo) FindDirect(a, b, viewer string) ([]model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Message
	for _, m := range r.messages {
		direct := (m.SenderId == a && m.ReceiverId == b) || (m.SenderId == b && m.ReceiverId == a)
		if direct && !r.hides[msgUserKey{m.Uuid, viewer}] {
			out = append(out, *m)
		}
	}
	sortByUuid(out)
	return out, nil
}

func (r *messageRepo) FindByGroup(groupUuid, viewer string) ([]model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Message
	for _, m := range r.messages {
		if m.GroupUuid == groupUuid && !r.hides[msgUserKey{m.Uuid, viewer}] {
			out = append(out, *m)
		}
	}
	sortByUuid(out)
	return out, nil
}

func (r *messageRepo) FindLastDirect(a, b string) (*model.Message, error) {
	msgs, _ := r.FindDirect(a, b, "")
	if len(msgs) == 0 {
		return nil, notFound("无历史消息")
	}
	last := msgs[len(msgs)-1]
	return &last, nil
}

func (r *messageRepo) MarkSeen(senderId, receiverId string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.SenderId == senderId && m.ReceiverId == receiverId && m.Status == 0 {
			m.Status = 1
			m.SeenAt.Time = at
			m.SeenAt.Valid = true
		}
	}
	return nil
}

func (r *messageRepo) HardDelete(uuid int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.messages, uuid)
	for key := range r.reactions {
		if key.msg == uuid {
			delete(r.reactions, key)
		}
	}
	for key := range r.hides {
		if key.msg == uuid {
			delete(r.hides, key)
		}
	}
	return nil
}

func (r *messageRepo) HardDeleteConversation(a, b string) (int64, error) {
	r.mu.Lock()
	uuids := make([]int64, 0)
	for uuid, m := range r.messages {
		if (m.SenderId == a && m.ReceiverId == b) || (m.SenderId == b && m.ReceiverId == a) {
			uuids = append(uuids, uuid)
		}
	}
	r.mu.Unlock()
	for _, uuid := range uuids {
		_ = r.HardDelete(uuid)
	}
	return int64(len(uuids)), nil
}

func (r *messageRepo) HardDeleteAllFor(userUuid string) error {
	r.mu.Lock()
	uuids := make([]int64, 0)
	for uuid, m := range r.messages {
		if m.SenderId == userUuid || m.ReceiverId == userUuid {
			uuids = append(uuids, uuid)
		}
	}
	r.mu.Unlock()
	for _, uuid := range uuids {
		_ = r.HardDelete(uuid)
	}
	return nil
}

func (r *messageRepo) UpsertReaction(messageUuid int64, userUuid, emoji string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reactions[msgUserKey{messageUuid, userUuid}] = emoji
	return nil
}

func (r *messageRepo) DeleteReaction(messageUuid int64, userUuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reactions, msgUserKey{messageUuid, userUuid})
	return nil
}

func (r *messageRepo) FindReactions(messageUuids []int64) ([]model.MessageReaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MessageReaction
	for _, uuid := range messageUuids {
		for key, emoji := range r.reactions {
			if key.msg == uuid {
				out = append(out, model.MessageReaction{
					MessageUuid: uuid,
					UserUuid:    key.user,
					Emoji:       emoji,
				})
			}
		}
	}
	return out, nil
}

func (r *messageRepo) Hide(messageUuid int64, userUuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hides[msgUserKey{messageUuid, userUuid}] = true
	return nil
}

func sortByUuid(msgs []model.Message) {
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].Uuid < msgs[j].Uuid })
}

// ---------- app version ----------

type appVersionRepo struct {
	mu       sync.Mutex
	versions []model.AppVersion
}

func (r *appVersionRepo) FindLatest() (*model.AppVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.versions) == 0 {
		return nil, notFound("暂无版本信息")
	}
	cp := r.versions[len(r.versions)-1]
	return &cp, nil
}

func (r *appVersionRepo) Upsert(version *model.AppVersion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.versions {
		if r.versions[i].Version == version.Version {
			r.versions[i] = *version
			return nil
		}
	}
	r.versions = append(r.versions, *version)
	return nil
}
