package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"habitloop_backend/internal/repository"
	"habitloop_backend/pkg/logger"
	"habitloop_backend/pkg/monitoring"

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
)

var messagePool = sync.Pool{
	New: func() interface{} {
		return &WSMessage{}
	},
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Client struct {
	Hub     *ChatHub
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
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.Uint("userId", c.UserID))
			}
			break
		}

		// 限流校验 (每秒最多 30 条消息，允许突发 50 条)
		if !c.Limiter.Allow() {
			continue
		}

		wsMsg := messagePool.Get().(*WSMessage)
		if err := json.Unmarshal(message, wsMsg); err != nil {
			messagePool.Put(wsMsg)
			continue
		}

		monitoring.ChatMessageCounter.WithLabelValues(wsMsg.Type, "in").Inc()

		if wsMsg.Type == "TYPING" {
			data, ok := wsMsg.Data.(map[string]interface{})
			if ok {
				convID, _ := data["conversationId"].(string)
				if convID != "" {
					c.Hub.HandleTransientEvent(c.UserID, convID, *wsMsg)
				}
			}
		}
		messagePool.Put(wsMsg)
	}
}

// HandleTransientEvent 转发不存库的瞬时事件（正在输入等）给会话的其他成员
func (h *ChatHub) HandleTransientEvent(senderID uint, convID string, msg WSMessage) {
	data, ok := msg.Data.(map[string]interface{})
	if !ok {
		return
	}
	data["userId"] = senderID
	msg.Data = data

	if h.ChatRepo == nil {
		return
	}
	memberIDs, err := h.ChatRepo.GetConversationMemberIDs(convID)
	if err != nil {
		return
	}
	var targets []uint
	for _, id := range memberIDs {
		if id != senderID {
			targets = append(targets, id)
		}
	}
	h.PushToUsers(targets, msg)
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

type ChatHub struct {
	shards         [shardCount]*shard
	register       chan *Client
	unregister     chan *Client
	Redis          *redis.Client
	ChatRepo       *repository.ChatRepository
	FriendshipRepo *repository.FriendshipRepository
	ctx            context.Context
}

func NewChatHub(rdb *redis.Client, chatRepo *repository.ChatRepository, friendRepo *repository.FriendshipRepository) *ChatHub {
	h := &ChatHub{
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		Redis:          rdb,
		ChatRepo:       chatRepo,
		FriendshipRepo: friendRepo,
		ctx:            context.Background(),
	}
	for i := 0; i < shardCount; i++ {
		h.shards[i] = &shard{
			clients: make(map[uint]*Client),
		}
	}
	return h
}

func (h *ChatHub) getShard(userID uint) *shard {
	return h.shards[userID%shardCount]
}

type PubSubMessage struct {
	TargetUsers []uint          `json:"targetUsers"`
	Payload     json.RawMessage `json:"payload"`
}

func (h *ChatHub) Run() {
	pubsub := h.Redis.Subscribe(h.ctx, "chat_channel")
	go func() {
		ch := pubsub.Channel()
		for msg := range ch {
			var psMsg PubSubMessage
			if err := json.Unmarshal([]byte(msg.Payload), &psMsg); err != nil {
				logger.Log.Error("PubSub unmarshal error", zap.Error(err))
				continue
			}
			h.pushToLocalUsers(psMsg.TargetUsers, psMsg.Payload)
		}
	}()

	// 状态更新批量写 Redis
	ticker := time.NewTicker(500 * time.Millisecond)
	heartbeatTicker := time.NewTicker(1 * time.Minute)
	defer func() {
		ticker.Stop()
		heartbeatTicker.Stop()
	}()

	type statusUpdate struct {
		userID uint
		status string
	}
	var pendingUpdates []statusUpdate

	for {
		select {
		case client := <-h.register:
			s := h.getShard(client.UserID)
			s.mu.Lock()
			s.clients[client.UserID] = client
			s.mu.Unlock()
			pendingUpdates = append(pendingUpdates, statusUpdate{client.UserID, "online"})
			monitoring.WSConnections.Inc()

		case client := <-h.unregister:
			s := h.getShard(client.UserID)
			s.mu.Lock()
			if _, ok := s.clients[client.UserID]; ok {
				delete(s.clients, client.UserID)
				close(client.Send)
				monitoring.WSConnections.Dec()
			}
			s.mu.Unlock()
			pendingUpdates = append(pendingUpdates, statusUpdate{client.UserID, "offline"})

		case <-heartbeatTicker.C:
			h.refreshOnlineStatus()

		case <-ticker.C:
			if len(pendingUpdates) == 0 {
				continue
			}

			pipe := h.Redis.Pipeline()
			for _, update := range pendingUpdates {
				key := fmt.Sprintf("user:online:%d", update.userID)
				if update.status == "online" {
					pipe.Set(h.ctx, key, "true", onlineTTL)
				} else {
					pipe.Del(h.ctx, key)
				}
			}
			if _, err := pipe.Exec(h.ctx); err != nil {
				logger.Log.Error("Redis pipeline error", zap.Error(err))
			}

			for _, update := range pendingUpdates {
				h.NotifyStatus(update.userID, update.status)
			}
			pendingUpdates = pendingUpdates[:0]
		}
	}
}

// refreshOnlineStatus 为本实例的在线用户批量续期
func (h *ChatHub) refreshOnlineStatus() {
	pipe := h.Redis.Pipeline()
	count := 0
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.RLock()
		for userID := range s.clients {
			pipe.Expire(h.ctx, fmt.Sprintf("user:online:%d", userID), onlineTTL)
			count++
		}
		s.mu.RUnlock()
	}
	if count > 0 {
		pipe.Exec(h.ctx)
		logger.Log.Debug("Refreshed online status", zap.Int("count", count))
	}
}

// NotifyStatus 把上线/下线状态推给全部好友
func (h *ChatHub) NotifyStatus(userID uint, status string) {
	msg := WSMessage{
		Type: "USER_STATUS",
		Data: map[string]interface{}{
			"userId": userID,
			"status": status,
		},
	}

	if h.FriendshipRepo == nil {
		return
	}
	friendIDs, err := h.FriendshipRepo.GetFriendIDs(userID)
	if err != nil || len(friendIDs) == 0 {
		return
	}
	h.PushToUsers(friendIDs, msg)
}

// Stop 关闭所有连接并清理在线状态
func (h *ChatHub) Stop() {
	logger.Log.Info("ChatHub stopping: clearing online status and closing connections...")

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

	if len(allUserIDs) > 0 {
		pipe := h.Redis.Pipeline()
		for _, userID := range allUserIDs {
			pipe.Del(h.ctx, fmt.Sprintf("user:online:%d", userID))
		}
		pipe.Exec(h.ctx)
	}

	monitoring.WSConnections.Set(0)
	logger.Log.Info("ChatHub stopped", zap.Int("closedConnections", len(allUserIDs)))
}

// PushToUsers 经 Redis 发布，多实例部署时各实例各推各的本地连接
func (h *ChatHub) PushToUsers(userIDs []uint, msg WSMessage) {
	if len(userIDs) == 0 {
		return
	}
	msgBytes, _ := json.Marshal(msg)
	psMsg := PubSubMessage{
		TargetUsers: userIDs,
		Payload:     msgBytes,
	}
	payload, _ := json.Marshal(psMsg)
	h.Redis.Publish(h.ctx, "chat_channel", payload)
	monitoring.ChatMessageCounter.WithLabelValues(msg.Type, "out").Inc()
}

func (h *ChatHub) pushToLocalUsers(userIDs []uint, payload []byte) {
	for _, id := range userIDs {
		s := h.getShard(id)
		s.mu.RLock()
		if client, ok := s.clients[id]; ok {
			select {
			case client.Send <- payload:
			default:
			}
		}
		s.mu.RUnlock()
	}
}

func (h *ChatHub) IsUserOnline(userID uint) bool {
	s := h.getShard(userID)
	s.mu.RLock()
	_, ok := s.clients[userID]
	s.mu.RUnlock()
	if ok {
		return true
	}

	// 多实例部署查 Redis
	val, err := h.Redis.Get(h.ctx, fmt.Sprintf("user:online:%d", userID)).Result()
	return err == nil && val == "true"
}

func ServeWs(hub *ChatHub, w http.ResponseWriter, r *http.Request, userID uint) {
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
