package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "pulse_chat"

// Token subject，区分两类令牌的用途
const (
	SubjectAccess  = "access_token"  // 短期，接口认证和 WebSocket 握手
	SubjectRefresh = "refresh_token" // 长期，仅用于换取新的 Access Token
)

// 签名密钥和两类令牌的有效期，由 Init 装载
var (
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
)

// Init 装载签名密钥和有效期，必须在签发任何令牌之前调用
func Init(signSecret string, accessExpiryMinutes, refreshExpiryHours int) {
	secret = []byte(signSecret)
	accessExpiry = time.Duration(accessExpiryMinutes) * time.Minute
	refreshExpiry = time.Duration(refreshExpiryHours) * time.Hour
}

// Claims 自定义 JWT 声明
type Claims struct {
	UserID  string `json:"user_id"`
	TokenID string `json:"token_id,omitempty"` // 仅 Refresh Token 携带，用于单点互踢
	jwt.RegisteredClaims
}

func grant(userID, tokenID, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  userID,
		TokenID: tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   subject,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// GenerateAccessToken 签发 Access Token
func GenerateAccessToken(userID string) (string, error) {
	return grant(userID, "", SubjectAccess, accessExpiry)
}

// GenerateRefreshToken 签发 Refresh Token
// tokenID 随机生成并写入声明，Redis 侧据此判断令牌是否已被新登录顶掉
func GenerateRefreshToken(userID string) (tokenString string, tokenID string, err error) {
	tokenID = uuid.NewString()
	tokenString, err = grant(userID, tokenID, SubjectRefresh, refreshExpiry)
	return
}

// ParseToken 解析并校验令牌，只接受本服务签发的 HS256 签名
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
