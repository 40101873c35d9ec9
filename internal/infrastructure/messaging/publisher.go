package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/sngm3741/dealer-review-services/internal/review/domain"
)

// ReviewPostedRoutingKey is the topic routing key of review.posted events.
const ReviewPostedRoutingKey = "review.posted"

// channel は ReviewPublisher が利用する amqp091.Channel のサブセット。
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// ReviewPublisher publishes review events to a RabbitMQ topic exchange.
type ReviewPublisher struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	ch       channel
	exchange string
}

// ReviewPostedEvent is the JSON body of a review.posted message.
type ReviewPostedEvent struct {
	ReviewID   int       `json:"reviewId"`
	Dealership int       `json:"dealership"`
	Username   string    `json:"username"`
	Purchase   bool      `json:"purchase"`
	PostedAt   time.Time `json:"postedAt"`
}

// Dial はブローカーへ接続し、topic exchange を宣言した Publisher を返す。
func Dial(url, exchange string) (*ReviewPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}
	return &ReviewPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// PublishReviewPosted implements application.EventPublisher.
func (p *ReviewPublisher) PublishReviewPosted(ctx context.Context, review domain.Review) error {
	body, err := json.Marshal(NewReviewPostedEvent(review))
	if err != nil {
		return err
	}

	// amqp091.Channel is not safe for concurrent publishes.
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(ctx, p.exchange, ReviewPostedRoutingKey, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    fmt.Sprintf("review-%d", review.ID),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

// Close releases the channel and the connection.
func (p *ReviewPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	if p.ch != nil {
		firstErr = p.ch.Close()
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func NewReviewPostedEvent(review domain.Review) ReviewPostedEvent {
	postedAt := review.CreatedAt
	if postedAt.IsZero() {
		postedAt = time.Now().UTC()
	}
	return ReviewPostedEvent{
		ReviewID:   review.ID,
		Dealership: review.Dealership,
		Username:   review.Username,
		Purchase:   review.Purchase,
		PostedAt:   postedAt,
	}
}
