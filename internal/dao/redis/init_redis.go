package redis

import (
	"strconv"

	"github.com/redis/go-redis/v9"

	"pulse_chat_server/internal/config"
)

var redisClient *redis.Client

var cacheService AsyncCacheService

// Init 初始化 Redis 连接并启动缓存 Worker Pool
func Init() {
	conf := config.GetConfig()
	addr := conf.RedisConfig.Host + ":" + strconv.Itoa(conf.RedisConfig.Port)

	redisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: conf.RedisConfig.Password,
		DB:       conf.RedisConfig.Db,
		// 连接池配置
		PoolSize:     50,
		MinIdleConns: 15,
	})

	cacheService = NewRedisCache(redisClient, 15, 3000)
}

// GetCacheService 获取缓存服务实例，供依赖注入使用
func GetCacheService() AsyncCacheService {
	return cacheService
}
