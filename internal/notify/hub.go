package notify

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

type Client struct {
	UserID int64
	Conn   *websocket.Conn
	Send   chan []byte
}

// Hub 把 redis 上的 notifications:* 频道桥接到对应用户的 websocket 连接
type Hub struct {
	rdb        *redis.Client
	clients    map[int64]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		rdb:        rdb,
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Run 在单独的 goroutine 中执行，ctx 取消时退出
func (h *Hub) Run(ctx context.Context) {
	sub := h.rdb.PSubscribe(ctx, "notifications:*")
	defer sub.Close()
	messages := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.UserID][client]; ok {
				delete(h.clients[client.UserID], client)
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
				}
				close(client.Send)
			}
			h.mu.Unlock()
		case msg, ok := <-messages:
			if !ok {
				return
			}
			userID, err := strconv.ParseInt(strings.TrimPrefix(msg.Channel, "notifications:"), 10, 64)
			if err != nil {
				slog.Error("无法解析通知频道名", "channel", msg.Channel, "error", err)
				continue
			}
			h.mu.RLock()
			for client := range h.clients[userID] {
				select {
				case client.Send <- []byte(msg.Payload):
				default:
					// 客户端写不进去就丢弃这条消息，推送不保证送达
				}
			}
			h.mu.RUnlock()
		}
	}
}

// ReadPump 只负责消费控制帧和检测断开，客户端不会主动发消息
func (h *Hub) ReadPump(client *Client) {
	defer func() {
		h.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(512)
	_ = client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) WritePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
