// 手动清空学习内容缓存脚本
//
// 学习内容按 (subject, topic, sessionType, proximity) 缓存 24 小时。
// 调整生成提示词后旧缓存仍会命中，此脚本用于一次性清空。
//
// 用法: go run scripts/flush_content_cache.go

package main

import (
	"context"
	"log"
	"serenestudy_backend/internal/config"
	"serenestudy_backend/pkg/database"
	"serenestudy_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Redis 连接失败: %v", err)
	}

	ctx := context.Background()
	keys, err := rdb.Keys(ctx, "learning:content:*").Result()
	if err != nil {
		log.Fatalf("查询缓存键失败: %v", err)
	}

	if len(keys) == 0 {
		log.Println("没有需要清理的缓存")
		return
	}

	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		log.Fatalf("删除缓存失败: %v", err)
	}

	log.Printf("已清空 %d 条学习内容缓存", len(keys))
}
