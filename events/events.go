package events

import (
	"context"
	"time"
)

const (
	UserCreated    = "user.created"
	OrderSubmitted = "order.submitted"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// 事件外層格式
type Envelope struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

type UserCreatedPayload struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

type OrderSubmittedPayload struct {
	OrderID  uint   `json:"order_id"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	ItemIDs  []uint `json:"item_ids"`
	Total    string `json:"total"`
}

// 未設定RabbitMQ時使用
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
