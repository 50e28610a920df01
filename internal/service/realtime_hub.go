package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"skillxchange_backend/pkg/logger"
	"skillxchange_backend/pkg/monitoring"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	shardCount     = 32
	onlineTTL      = 2 * time.Minute // 在线状态过期时间

	realtimeTopic = "skillxchange:realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// RealtimeEvent 推送事件。Channel 决定接收者:
// notifications-{userId} 精确投递；private-chat-{a}-{b} 投递给两端
type RealtimeEvent struct {
	Channel string      `json:"channel"`
	Event   string      `json:"event"`
	Data    interface{} `json:"data"`
}

// NotificationChannel 用户的个人通知频道名
func NotificationChannel(userID uint) string {
	return fmt.Sprintf("notifications-%d", userID)
}

// ChatChannel 两用户间的私聊频道名，ID 小者在前
func ChatChannel(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("private-chat-%d-%d", a, b)
}

// channelTargets 从频道名解析接收者
func channelTargets(channel string) []uint {
	if rest, ok := strings.CutPrefix(channel, "notifications-"); ok {
		if id, err := strconv.ParseUint(rest, 10, 32); err == nil {
			return []uint{uint(id)}
		}
		return nil
	}
	if rest, ok := strings.CutPrefix(channel, "private-chat-"); ok {
		parts := strings.Split(rest, "-")
		if len(parts) != 2 {
			return nil
		}
		a, errA := strconv.ParseUint(parts[0], 10, 32)
		b, errB := strconv.ParseUint(parts[1], 10, 32)
		if errA != nil || errB != nil {
			return nil
		}
		return []uint{uint(a), uint(b)}
	}
	return nil
}

type Client struct {
	Hub     *RealtimeHub
	Conn    *websocket.Conn
	Send    chan []byte
	UserID  uint
	Limiter *rate.Limiter
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		// 客户端不发业务消息，读循环只维持连接与 pong 处理
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.Uint("userId", c.UserID))
			}
			break
		}
		if !c.Limiter.Allow() {
			continue
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if n := len(c.Send); n > 0 {
				for i := 0; i < n; i++ {
					w.Write(<-c.Send)
				}
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type shard struct {
	clients map[uint]*Client
	mu      sync.RWMutex
}

// RealtimeHub 单进程内的连接管理，多实例间经 Redis 发布订阅扇出
type RealtimeHub struct {
	shards     [shardCount]*shard
	register   chan *Client
	unregister chan *Client
	Redis      *redis.Client
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewRealtimeHub(rdb *redis.Client) *RealtimeHub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &RealtimeHub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		Redis:      rdb,
		ctx:        ctx,
		cancel:     cancel,
	}
	for i := 0; i < shardCount; i++ {
		h.shards[i] = &shard{
			clients: make(map[uint]*Client),
		}
	}
	return h
}

func (h *RealtimeHub) getShard(userID uint) *shard {
	return h.shards[userID%shardCount]
}

func (h *RealtimeHub) Run() {
	if h.Redis != nil {
		pubsub := h.Redis.Subscribe(h.ctx, realtimeTopic)
		go func() {
			ch := pubsub.Channel()
			for msg := range ch {
				var ev RealtimeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					logger.Log.Error("Realtime payload unmarshal error", zap.Error(err))
					continue
				}
				h.deliverLocal(channelTargets(ev.Channel), []byte(msg.Payload))
			}
		}()
	}

	heartbeatTicker := time.NewTicker(1 * time.Minute)
	defer heartbeatTicker.Stop()

	for {
		select {
		case client := <-h.register:
			s := h.getShard(client.UserID)
			s.mu.Lock()
			s.clients[client.UserID] = client
			s.mu.Unlock()
			h.setOnline(client.UserID, true)
			monitoring.RealtimeOnlineUsers.Inc()

		case client := <-h.unregister:
			s := h.getShard(client.UserID)
			s.mu.Lock()
			if _, ok := s.clients[client.UserID]; ok {
				delete(s.clients, client.UserID)
				close(client.Send)
				monitoring.RealtimeOnlineUsers.Dec()
			}
			s.mu.Unlock()
			h.setOnline(client.UserID, false)

		case <-heartbeatTicker.C:
			h.refreshOnlineStatus()

		case <-h.ctx.Done():
			return
		}
	}
}

// Publish 序列化事件并经 Redis 广播，失败只记日志
func (h *RealtimeHub) Publish(channel, event string, data interface{}) {
	ev := RealtimeEvent{Channel: channel, Event: event, Data: data}
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Log.Error("Realtime event marshal error", zap.Error(err))
		return
	}
	monitoring.RealtimeEventCounter.WithLabelValues(event, "out").Inc()

	if h.Redis == nil {
		h.deliverLocal(channelTargets(channel), payload)
		return
	}
	if err := h.Redis.Publish(h.ctx, realtimeTopic, payload).Err(); err != nil {
		logger.Log.Error("Realtime publish error", zap.Error(err), zap.String("channel", channel))
	}
}

func (h *RealtimeHub) deliverLocal(userIDs []uint, payload []byte) {
	for _, id := range userIDs {
		s := h.getShard(id)
		s.mu.RLock()
		if client, ok := s.clients[id]; ok {
			select {
			case client.Send <- payload:
			default:
				// 慢消费者直接丢弃，轮询兜底
			}
		}
		s.mu.RUnlock()
	}
}

func (h *RealtimeHub) setOnline(userID uint, online bool) {
	if h.Redis == nil {
		return
	}
	key := fmt.Sprintf("skillxchange:online:%d", userID)
	if online {
		h.Redis.Set(h.ctx, key, "true", onlineTTL)
	} else {
		h.Redis.Del(h.ctx, key)
	}
}

// refreshOnlineStatus 为本实例在线用户批量续期
func (h *RealtimeHub) refreshOnlineStatus() {
	if h.Redis == nil {
		return
	}
	pipe := h.Redis.Pipeline()
	count := 0
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.RLock()
		for userID := range s.clients {
			pipe.Expire(h.ctx, fmt.Sprintf("skillxchange:online:%d", userID), onlineTTL)
			count++
		}
		s.mu.RUnlock()
	}
	if count > 0 {
		pipe.Exec(h.ctx)
		logger.Log.Debug("Refreshed online status", zap.Int("count", count))
	}
}

func (h *RealtimeHub) IsUserOnline(userID uint) bool {
	s := h.getShard(userID)
	s.mu.RLock()
	_, ok := s.clients[userID]
	s.mu.RUnlock()
	if ok {
		return true
	}

	if h.Redis == nil {
		return false
	}
	val, err := h.Redis.Get(h.ctx, fmt.Sprintf("skillxchange:online:%d", userID)).Result()
	return err == nil && val == "true"
}

// Stop 关闭所有连接并清理在线状态
func (h *RealtimeHub) Stop() {
	logger.Log.Info("RealtimeHub stopping: clearing online status and closing connections...")

	var allUserIDs []uint
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.Lock()
		for userID, client := range s.clients {
			allUserIDs = append(allUserIDs, userID)
			close(client.Send)
			delete(s.clients, userID)
		}
		s.mu.Unlock()
	}

	if len(allUserIDs) > 0 && h.Redis != nil {
		pipe := h.Redis.Pipeline()
		for _, userID := range allUserIDs {
			pipe.Del(h.ctx, fmt.Sprintf("skillxchange:online:%d", userID))
		}
		pipe.Exec(h.ctx)
	}

	h.cancel()
	monitoring.RealtimeOnlineUsers.Set(0)
	logger.Log.Info("RealtimeHub stopped", zap.Int("closedConnections", len(allUserIDs)))
}

func ServeWs(hub *RealtimeHub, w http.ResponseWriter, r *http.Request, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.Uint("userId", userID))
		return
	}
	client := &Client{
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		UserID:  userID,
		Limiter: rate.NewLimiter(rate.Limit(30), 50),
	}
	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}
