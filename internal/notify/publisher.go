package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
)

func channelFor(userID int64) string {
	return fmt.Sprintf("notifications:%d", userID)
}

// Publisher 把新插入的通知发布到按用户划分的 redis 频道上。
// 发布只是前端弹窗的触发器，不承担送达保证，失败只记录日志。
type Publisher struct {
	rdb            *redis.Client
	publishTimeout time.Duration
}

func NewPublisher(rdb *redis.Client, publishTimeout time.Duration) *Publisher {
	return &Publisher{
		rdb:            rdb,
		publishTimeout: publishTimeout,
	}
}

func (p *Publisher) PublishNotification(n *domain.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		slog.Error("通知序列化失败", "notification_id", n.ID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.publishTimeout)
	defer cancel()

	if err := p.rdb.Publish(ctx, channelFor(n.UserID), data).Err(); err != nil {
		slog.Error("通知实时推送失败", "user_id", n.UserID, "error", err)
	}
}
