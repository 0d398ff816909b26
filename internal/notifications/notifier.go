package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"strings"
	"time"

	"pawhaven/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	broadcastChannel  = "alerts:broadcast"
	viewerChannelFmt  = "alerts:user:%s"
	viewerChannelPre  = "alerts:user:"
	viewerChannelGlob = "alerts:user:*"
)

// AlertPayload is the wire shape pushed to alert listeners.
type AlertPayload struct {
	Type      string    `json:"type"`
	PostID    string    `json:"post_id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier publishes alerts into Redis channels. A nil Redis client turns
// every publish into a no-op so single-node dev setups work without Redis,
// at the cost of cross-instance delivery.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishAlert pushes an urgent post to every listener.
func (n *Notifier) PublishAlert(ctx context.Context, post *models.Post) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(AlertPayload{
		Type:      "urgent_alert",
		PostID:    post.ID,
		Title:     post.Title,
		Category:  post.Category,
		CreatedAt: post.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal alert payload: %w", err)
	}
	return n.rdb.Publish(ctx, broadcastChannel, payload).Err()
}

// PublishViewer sends a payload to one viewer's channel.
func (n *Notifier) PublishViewer(ctx context.Context, viewerID, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, fmt.Sprintf(viewerChannelFmt, viewerID), payload).Err()
}

// StartSubscriber subscribes to the alert channels and calls onMessage for
// each incoming message.
func (n *Notifier) StartSubscriber(
	ctx context.Context, onMessage func(channel, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, viewerChannelGlob, broadcastChannel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in alert subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// viewerFromChannel extracts the viewer id from an alerts:user:<id> channel.
func viewerFromChannel(channel string) (string, bool) {
	if !strings.HasPrefix(channel, viewerChannelPre) {
		return "", false
	}
	id := strings.TrimPrefix(channel, viewerChannelPre)
	if id == "" {
		return "", false
	}
	return id, true
}
