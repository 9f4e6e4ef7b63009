package repository

import (
	"database/sql"
	"errors"
	"time"

	"pulse_chat_server/internal/model"
	"pulse_chat_server/pkg/enum/message/message_status_enum"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create 持久化一条消息
func (r *messageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "写入消息")
	}
	return nil
}

// FindByUuid 根据雪花 ID 查找消息
func (r *messageRepository) FindByUuid(uuid int64) (*model.Message, error) {
	var message model.Message
	if err := r.db.Where("uuid = ?", uuid).First(&message).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询消息 uuid=%d", uuid)
	}
	return &message, nil
}

// hiddenFilter 排除 viewer 已隐藏的消息
func hiddenFilter(db *gorm.DB, viewer string) *gorm.DB {
	sub := db.Session(&gorm.Session{NewDB: true}).
		Model(&model.MessageHide{}).
		Select("message_uuid").
		Where("user_uuid = ?", viewer)
	return db.Where("uuid NOT IN (?)", sub)
}

// FindDirect 双向查找两人之间的消息，按创建时间升序
func (r *messageRepository) FindDirect(a, b, viewer string) ([]model.Message, error) {
	var messages []model.Message
	query := r.db.Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		a, b, b, a,
	)
	query = hiddenFilter(query, viewer)
	if err := query.Order("created_at ASC").Find(&messages).Error; err != nil {
		return nil, wrapDBError(err, "查询单聊消息")
	}
	return messages, nil
}

// FindByGroup 查找群消息，按创建时间升序
func (r *messageRepository) FindByGroup(groupUuid, viewer string) ([]model.Message, error) {
	var messages []model.Message
	query := r.db.Where("group_uuid = ?", groupUuid)
	query = hiddenFilter(query, viewer)
	if err := query.Order("created_at ASC").Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群消息 group=%s", groupUuid)
	}
	return messages, nil
}

// FindLastDirect 两人会话的最新一条消息
func (r *messageRepository) FindLastDirect(a, b string) (*model.Message, error) {
	var message model.Message
	if err := r.db.Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		a, b, b, a,
	).Order("created_at DESC").First(&message).Error; err != nil {
		return nil, wrapDBError(err, "查询最新消息")
	}
	return &message, nil
}

// MarkSeen 批量置已读，状态单向流转
func (r *messageRepository) MarkSeen(senderId, receiverId string, at time.Time) error {
	if err := r.db.Model(&model.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND status = ?",
			senderId, receiverId, message_status_enum.Sent).
		Updates(map[string]interface{}{
			"status":  message_status_enum.Seen,
			"seen_at": sql.NullTime{Time: at, Valid: true},
		}).Error; err != nil {
		return wrapDBError(err, "标记消息已读")
	}
	return nil
}

// HardDelete 物理删除一条消息及其反应和隐藏记录
func (r *messageRepository) HardDelete(uuid int64) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("message_uuid = ?", uuid).
			Delete(&model.MessageReaction{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("message_uuid = ?", uuid).
			Delete(&model.MessageHide{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("uuid = ?", uuid).
			Delete(&model.Message{}).Error
	})
	if err != nil {
		return wrapDBErrorf(err, "删除消息 uuid=%d", uuid)
	}
	return nil
}

// HardDeleteConversation 物理删除两人之间的全部消息，返回删除行数
func (r *messageRepository) HardDeleteConversation(a, b string) (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var uuids []int64
		if err := tx.Model(&model.Message{}).
			Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
				a, b, b, a).
			Pluck("uuid", &uuids).Error; err != nil {
			return err
		}
		if len(uuids) == 0 {
			return nil
		}
		if err := tx.Unscoped().Where("message_uuid IN ?", uuids).
			Delete(&model.MessageReaction{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("message_uuid IN ?", uuids).
			Delete(&model.MessageHide{}).Error; err != nil {
			return err
		}
		result := tx.Unscoped().Where("uuid IN ?", uuids).Delete(&model.Message{})
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, wrapDBError(err, "删除会话消息")
	}
	return deleted, nil
}

// HardDeleteAllFor 账号清理时删除用户相关的全部消息数据
func (r *messageRepository) HardDeleteAllFor(userUuid string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var uuids []int64
		if err := tx.Model(&model.Message{}).
			Where("sender_id = ? OR receiver_id = ?", userUuid, userUuid).
			Pluck("uuid", &uuids).Error; err != nil {
			return err
		}
		if len(uuids) > 0 {
			if err := tx.Unscoped().Where("message_uuid IN ?", uuids).
				Delete(&model.MessageReaction{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("message_uuid IN ?", uuids).
				Delete(&model.MessageHide{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("uuid IN ?", uuids).
				Delete(&model.Message{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("user_uuid = ?", userUuid).
			Delete(&model.MessageReaction{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("user_uuid = ?", userUuid).
			Delete(&model.MessageHide{}).Error
	})
	if err != nil {
		return wrapDBErrorf(err, "清理用户消息 user=%s", userUuid)
	}
	return nil
}

// UpsertReaction 每人每条消息只保留一个反应，后写覆盖先写
func (r *messageRepository) UpsertReaction(messageUuid int64, userUuid, emoji string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing model.MessageReaction
		err := tx.Where("message_uuid = ? AND user_uuid = ?", messageUuid, userUuid).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&model.MessageReaction{
				MessageUuid: messageUuid,
				UserUuid:    userUuid,
				Emoji:       emoji,
			}).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&existing).Update("emoji", emoji).Error
	})
	if err != nil {
		return wrapDBErrorf(err, "写入消息反应 message=%d", messageUuid)
	}
	return nil
}

// DeleteReaction 移除某用户对某消息的反应
func (r *messageRepository) DeleteReaction(messageUuid int64, userUuid string) error {
	if err := r.db.Unscoped().
		Where("message_uuid = ? AND user_uuid = ?", messageUuid, userUuid).
		Delete(&model.MessageReaction{}).Error; err != nil {
		return wrapDBErrorf(err, "移除消息反应 message=%d", messageUuid)
	}
	return nil
}

// FindReactions 批量查询消息反应
func (r *messageRepository) FindReactions(messageUuids []int64) ([]model.MessageReaction, error) {
	if len(messageUuids) == 0 {
		return []model.MessageReaction{}, nil
	}
	var reactions []model.MessageReaction
	if err := r.db.Where("message_uuid IN ?", messageUuids).
		Find(&reactions).Error; err != nil {
		return nil, wrapDBError(err, "查询消息反应")
	}
	return reactions, nil
}

// Hide 仅对我删除，重复调用幂等
func (r *messageRepository) Hide(messageUuid int64, userUuid string) error {
	var count int64
	if err := r.db.Model(&model.MessageHide{}).
		Where("message_uuid = ? AND user_uuid = ?", messageUuid, userUuid).
		Count(&count).Error; err != nil {
		return wrapDBError(err, "查询消息隐藏记录")
	}
	if count > 0 {
		return nil
	}
	if err := r.db.Create(&model.MessageHide{
		MessageUuid: messageUuid,
		UserUuid:    userUuid,
	}).Error; err != nil {
		return wrapDBErrorf(err, "隐藏消息 message=%d", messageUuid)
	}
	return nil
}
