// Package auth 实现账号业务逻辑
// 注册-验证-登录流程、双令牌、密码找回和账号注销均在此
package auth

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"pulse_chat_server/internal/config"
	"pulse_chat_server/internal/dao/mysql/repository"
	myredis "pulse_chat_server/internal/dao/redis"
	"pulse_chat_server/internal/dto/request"
	"pulse_chat_server/internal/dto/respond"
	"pulse_chat_server/internal/infrastructure/email"
	"pulse_chat_server/internal/model"
	"pulse_chat_server/pkg/constants"
	"pulse_chat_server/pkg/enum/user/email_visibility_enum"
	"pulse_chat_server/pkg/errorx"
	"pulse_chat_server/pkg/util/jwt"
	"pulse_chat_server/pkg/util/random"
)

const timeLayout = "2006-01-02 15:04:05"

func ctx() context.Context {
	return context.Background()
}

// refreshTokenKey Redis 中 Refresh Token ID 的键
func refreshTokenKey(uuid string) string {
	return constants.REFRESH_TOKEN_KEY_PREFIX + uuid
}

type authService struct {
	repos  *repository.Repositories
	cache  myredis.CacheService
	mailer email.Mailer
}

// NewAuthService 构造函数，注入依赖
func NewAuthService(repos *repository.Repositories, cache myredis.CacheService, mailer email.Mailer) *authService {
	return &authService{repos: repos, cache: cache, mailer: mailer}
}

// Register 注册新用户并发送邮箱验证码
// 已验证的邮箱不允许重复注册；未验证的旧记录允许覆盖式重发
func (s *authService) Register(req request.RegisterRequest) (*respond.RegisterRespond, error) {
	existing, err := s.repos.User.FindByEmail(req.Email)
	if err != nil && errorx.GetCode(err) != errorx.CodeNotFound {
		zap.L().Error("注册查询用户失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if existing != nil && existing.IsVerified {
		return nil, errorx.New(errorx.CodeUserExist, "该邮箱已注册")
	}

	code := strconv.Itoa(random.GetRandomInt(6))
	expiresAt := time.Now().Add(constants.VERIFY_CODE_EXPIRY)

	user := existing
	if user == nil {
		user = &model.User{
			Uuid:            "U" + random.GetNowAndLenRandomString(13),
			EmailVisibility: email_visibility_enum.Everyone,
		}
	}
	user.FullName = req.FullName
	user.Email = req.Email
	user.RawPassword = req.Password
	user.VerificationCode = code
	user.VerificationCodeExpiresAt = sql.NullTime{Time: expiresAt, Valid: true}

	if existing == nil {
		err = s.repos.User.Create(user)
	} else {
		err = s.repos.User.Update(user)
	}
	if err != nil {
		zap.L().Error("注册写入用户失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	s.sendVerificationMail(user.Email, code)

	return &respond.RegisterRespond{Uuid: user.Uuid, Email: user.Email}, nil
}

// sendVerificationMail 发送验证码邮件，失败只记录不阻塞流程
func (s *authService) sendVerificationMail(to, code string) {
	body := fmt.Sprintf("您的邮箱验证码为 %s，15 分钟内有效。", code)
	if err := s.mailer.Send(to, "邮箱验证码", body); err != nil {
		zap.L().Error("发送验证码邮件失败", zap.String("email", to), zap.Error(err))
	}
}

// VerifyEmail 校验验证码并激活账号
func (s *authService) VerifyEmail(req request.VerifyEmailRequest) error {
	user, err := s.repos.User.FindByEmail(req.Email)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		return errorx.ErrServerBusy
	}
	if user.IsVerified {
		return nil
	}
	if user.VerificationCode == "" || user.VerificationCode != req.Code {
		return errorx.New(errorx.CodeInvalidParam, "验证码不正确")
	}
	if !user.VerificationCodeExpiresAt.Valid || time.Now().After(user.VerificationCodeExpiresAt.Time) {
		return errorx.New(errorx.CodeInvalidParam, "验证码已过期，请重新获取")
	}

	user.IsVerified = true
	user.VerificationCode = ""
	user.VerificationCodeExpiresAt = sql.NullTime{}
	if err := s.repos.User.Update(user); err != nil {
		zap.L().Error("激活账号失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// ResendVerification 重新生成并发送验证码
func (s *authService) ResendVerification(emailAddr string) error {
	user, err := s.repos.User.FindByEmail(emailAddr)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		return errorx.ErrServerBusy
	}
	if user.IsVerified {
		return errorx.New(errorx.CodeConflict, "该邮箱已完成验证")
	}

	code := strconv.Itoa(random.GetRandomInt(6))
	user.VerificationCode = code
	user.VerificationCodeExpiresAt = sql.NullTime{Time: time.Now().Add(constants.VERIFY_CODE_EXPIRY), Valid: true}
	if err := s.repos.User.Update(user); err != nil {
		zap.L().Error("更新验证码失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	s.sendVerificationMail(user.Email, code)
	return nil
}

// Login 密码登录
// 处于注销宽限期内的账号登录即自动恢复；超期则终态拒绝
func (s *authService) Login(req request.LoginRequest) (*respond.LoginRespond, error) {
	user, err := s.repos.User.FindByEmail(req.Email)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在，请注册")
		}
		zap.L().Error("登录查询用户失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !user.CheckPassword(req.Password) {
		return nil, errorx.New(errorx.CodeInvalidPassword, "密码不正确，请重试")
	}
	if !user.IsVerified {
		return nil, errorx.New(errorx.CodeNotVerified, "邮箱尚未验证，请先完成验证")
	}

	restored := false
	if user.IsDeleted {
		if !user.AccountDeletedAt.Valid ||
			time.Now().After(user.AccountDeletedAt.Time.Add(constants.DELETE_GRACE_PERIOD)) {
			return nil, errorx.New(errorx.CodeAccountDeleted, "账号已注销且超出恢复期")
		}
		user.IsDeleted = false
		user.AccountDeletedAt = sql.NullTime{}
		if err := s.repos.User.Update(user); err != nil {
			zap.L().Error("恢复注销账号失败", zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
		restored = true
		zap.L().Info("注销账号已恢复", zap.String("uuid", user.Uuid))
	}

	accessToken, err := jwt.GenerateAccessToken(user.Uuid)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	refreshToken, tokenID, err := jwt.GenerateRefreshToken(user.Uuid)
	if err != nil {
		zap.L().Error("生成 Refresh Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 将 Refresh Token ID 存入 Redis，实现单点互踢
	if err := s.cache.Set(ctx(), refreshTokenKey(user.Uuid), tokenID,
		time.Duration(constants.REFRESH_TOKEN_EXPIRY_HOURS)*time.Hour); err != nil {
		// 不阻塞登录流程，仅记录日志
		zap.L().Error("存储 Token ID 到 Redis 失败", zap.Error(err))
	}

	return &respond.LoginRespond{
		Uuid:            user.Uuid,
		FullName:        user.FullName,
		Email:           user.Email,
		Avatar:          user.Avatar,
		EmailVisibility: user.EmailVisibility,
		IsAdmin:         user.IsAdmin,
		CreatedAt:       user.CreatedAt.Format(timeLayout),
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		Restored:        restored,
	}, nil
}

// RefreshToken 校验 Refresh Token 并轮换双令牌
func (s *authService) RefreshToken(refreshToken string) (*respond.TokenRespond, error) {
	claims, err := jwt.ParseToken(refreshToken)
	if err != nil || claims.Subject != jwt.SubjectRefresh {
		return nil, errorx.New(errorx.CodeUnauthorized, "Refresh Token 无效，请重新登录")
	}

	storedTokenID, err := s.cache.Get(ctx(), refreshTokenKey(claims.UserID))
	if err != nil {
		zap.L().Error("读取 Token ID 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if storedTokenID == "" || storedTokenID != claims.TokenID {
		return nil, errorx.New(errorx.CodeUnauthorized, "Refresh Token 已失效，请重新登录")
	}

	accessToken, err := jwt.GenerateAccessToken(claims.UserID)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	newRefreshToken, tokenID, err := jwt.GenerateRefreshToken(claims.UserID)
	if err != nil {
		zap.L().Error("生成 Refresh Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if err := s.cache.Set(ctx(), refreshTokenKey(claims.UserID), tokenID,
		time.Duration(constants.REFRESH_TOKEN_EXPIRY_HOURS)*time.Hour); err != nil {
		zap.L().Error("更新 Token ID 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	return &respond.TokenRespond{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout 登出，作废 Refresh Token
func (s *authService) Logout(userId string) error {
	if err := s.cache.Delete(ctx(), refreshTokenKey(userId)); err != nil {
		zap.L().Error("删除 Token ID 失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// ForgotPassword 生成重置令牌并发送邮件
// 用户不存在时同样返回成功，不暴露邮箱是否注册
func (s *authService) ForgotPassword(emailAddr string) error {
	user, err := s.repos.User.FindByEmail(emailAddr)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil
		}
		return errorx.ErrServerBusy
	}

	token := random.GetHexToken(32)
	user.ResetToken = token
	user.ResetTokenExpiresAt = sql.NullTime{Time: time.Now().Add(constants.RESET_TOKEN_EXPIRY), Valid: true}
	if err := s.repos.User.Update(user); err != nil {
		zap.L().Error("写入重置令牌失败", zap.Error(err))
		return errorx.ErrServerBusy
	}

	body := fmt.Sprintf("您正在重置密码，重置令牌为 %s，1 小时内有效。若非本人操作请忽略。", token)
	if err := s.mailer.Send(user.Email, "重置密码", body); err != nil {
		zap.L().Error("发送重置邮件失败", zap.String("email", user.Email), zap.Error(err))
	}
	return nil
}

// ResetPassword 通过令牌重置密码
func (s *authService) ResetPassword(req request.ResetPasswordRequest) error {
	user, err := s.repos.User.FindByResetToken(req.Token)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return errorx.New(errorx.CodeInvalidParam, "重置令牌无效")
		}
		return errorx.ErrServerBusy
	}
	if !user.ResetTokenExpiresAt.Valid || time.Now().After(user.ResetTokenExpiresAt.Time) {
		return errorx.New(errorx.CodeInvalidParam, "重置令牌已过期，请重新申请")
	}

	user.RawPassword = req.NewPassword
	user.ResetToken = ""
	user.ResetTokenExpiresAt = sql.NullTime{}
	if err := s.repos.User.Update(user); err != nil {
		zap.L().Error("重置密码失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	// 密码变更后强制全端重新登录
	if err := s.cache.Delete(ctx(), refreshTokenKey(user.Uuid)); err != nil {
		zap.L().Error("清理 Token ID 失败", zap.Error(err))
	}
	return nil
}

// GetProfile 查看用户资料，邮箱按可见性策略过滤
func (s *authService) GetProfile(viewerId, targetId string) (*respond.UserInfoRespond, error) {
	user, err := s.repos.User.FindByUuid(targetId)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		return nil, errorx.ErrServerBusy
	}
	if user.IsDeleted {
		return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
	}
	rsp := s.buildUserInfo(viewerId, user)
	return &rsp, nil
}

// buildUserInfo 构造用户信息响应并套用邮箱可见性
func (s *authService) buildUserInfo(viewerId string, user *model.User) respond.UserInfoRespond {
	rsp := respond.UserInfoRespond{
		Uuid:            user.Uuid,
		FullName:        user.FullName,
		Avatar:          user.Avatar,
		EmailVisibility: user.EmailVisibility,
		CreatedAt:       user.CreatedAt.Format(timeLayout),
	}
	if user.LastActiveAt.Valid {
		rsp.LastActiveAt = user.LastActiveAt.Time.Format(timeLayout)
	}
	if s.emailVisibleTo(viewerId, user) {
		rsp.Email = user.Email
	}
	return rsp
}

func (s *authService) emailVisibleTo(viewerId string, user *model.User) bool {
	if viewerId == user.Uuid {
		return true
	}
	switch user.EmailVisibility {
	case email_visibility_enum.Everyone:
		return true
	case email_visibility_enum.FriendsOnly:
		isFriend, err := s.repos.Friendship.Exists(viewerId, user.Uuid)
		if err != nil {
			zap.L().Error("查询好友关系失败", zap.Error(err))
			return false
		}
		return isFriend
	default:
		return false
	}
}

// UpdateProfile 更新个人资料，空字段不变更
func (s *authService) UpdateProfile(userId string, req request.UpdateProfileRequest) error {
	user, err := s.repos.User.FindByUuid(userId)
	if err != nil {
		return errorx.ErrServerBusy
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Avatar != "" {
		avatar, err := s.saveAvatar(userId, req.Avatar)
		if err != nil {
			return err
		}
		user.Avatar = avatar
	}
	if req.EmailVisibility != "" {
		if !email_visibility_enum.Valid(req.EmailVisibility) {
			return errorx.New(errorx.CodeInvalidParam, "非法的邮箱可见性取值")
		}
		user.EmailVisibility = req.EmailVisibility
	}
	if err := s.repos.User.Update(user); err != nil {
		zap.L().Error("更新资料失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// saveAvatar 头像以 data URL 上传时解码落盘到静态目录，已是 URL 时原样保留
func (s *authService) saveAvatar(userId, data string) (string, error) {
	if !strings.HasPrefix(data, "data:image/") {
		return data, nil
	}
	idx := strings.Index(data, ";base64,")
	if idx < 0 {
		return "", errorx.New(errorx.CodeInvalidParam, "头像数据格式错误")
	}
	ext := strings.TrimPrefix(data[:idx], "data:image/")
	switch ext {
	case "png", "jpeg", "jpg", "gif", "webp":
	default:
		return "", errorx.New(errorx.CodeInvalidParam, "不支持的头像格式")
	}
	raw, err := base64.StdEncoding.DecodeString(data[idx+len(";base64,"):])
	if err != nil {
		return "", errorx.New(errorx.CodeInvalidParam, "头像数据解码失败")
	}

	dir := config.GetConfig().StaticAvatarPath
	if err := os.MkdirAll(dir, 0o755); err != nil {
		zap.L().Error("创建头像目录失败", zap.Error(err))
		return "", errorx.ErrServerBusy
	}
	name := userId + "_" + random.GetHexToken(8) + "." + ext
	if err := os.WriteFile(filepath.Join(dir, name), raw, 0o644); err != nil {
		zap.L().Error("写入头像文件失败", zap.Error(err))
		return "", errorx.ErrServerBusy
	}
	return "/static/avatars/" + name, nil
}

// ChangePassword 修改密码，需校验旧密码
func (s *authService) ChangePassword(userId string, req request.ChangePasswordRequest) error {
	user, err := s.repos.User.FindByUuid(userId)
	if err != nil {
		return errorx.ErrServerBusy
	}
	if !user.CheckPassword(req.OldPassword) {
		return errorx.New(errorx.CodeInvalidPassword, "原密码不正确")
	}
	user.RawPassword = req.NewPassword
	if err := s.repos.User.Update(user); err != nil {
		zap.L().Error("修改密码失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	if err := s.cache.Delete(ctx(), refreshTokenKey(userId)); err != nil {
		zap.L().Error("清理 Token ID 失败", zap.Error(err))
	}
	return nil
}

// DeleteAccount 注销账号，进入恢复宽限期
// 宽限期内重新登录即恢复，超期由后台任务物理清除
func (s *authService) DeleteAccount(userId, password string) error {
	user, err := s.repos.User.FindByUuid(userId)
	if err != nil {
		return errorx.ErrServerBusy
	}
	if !user.CheckPassword(password) {
		return errorx.New(errorx.CodeInvalidPassword, "密码不正确")
	}
	user.IsDeleted = true
	user.AccountDeletedAt = sql.NullTime{Time: time.Now(), Valid: true}
	if err := s.repos.User.Update(user); err != nil {
		zap.L().Error("注销账号失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	if err := s.cache.Delete(ctx(), refreshTokenKey(userId)); err != nil {
		zap.L().Error("清理 Token ID 失败", zap.Error(err))
	}
	zap.L().Info("账号已注销", zap.String("uuid", userId))
	return nil
}

// SearchUsers 按显示名或邮箱模糊搜索
func (s *authService) SearchUsers(viewerId, keyword string) ([]respond.UserInfoRespond, error) {
	users, err := s.repos.User.Search(keyword, viewerId)
	if err != nil {
		zap.L().Error("搜索用户失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsps := make([]respond.UserInfoRespond, 0, len(users))
	for i := range users {
		if users[i].Uuid == viewerId || users[i].IsDeleted || !users[i].IsVerified {
			continue
		}
		rsps = append(rsps, s.buildUserInfo(viewerId, &users[i]))
	}
	return rsps, nil
}

// GetSidebarUsers 会话侧栏用户列表，除自己外的全部已验证用户
func (s *authService) GetSidebarUsers(viewerId string) ([]respond.UserInfoRespond, error) {
	users, err := s.repos.User.FindAllExcept(viewerId)
	if err != nil {
		zap.L().Error("查询侧栏用户失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsps := make([]respond.UserInfoRespond, 0, len(users))
	for i := range users {
		if !users[i].IsVerified {
			continue
		}
		rsps = append(rsps, s.buildUserInfo(viewerId, &users[i]))
	}
	return rsps, nil
}
