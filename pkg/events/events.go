package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/diagnosis/luxstay-rentals/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
	ID        string
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	// Booking lifecycle events
	BookingConfirmationRequested = "booking.confirmation.requested"
	BookingCancellationNotice    = "booking.cancellation.notice"
	BookingConfirmed             = "booking.confirmed"
	BookingCompleted             = "booking.completed"

	// Payment events
	PaymentRefundRequested = "payment.refund.requested"
)

// Event payloads
type BookingConfirmationEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	PropertyID uuid.UUID `json:"property_id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	TotalCents int64     `json:"total_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

type BookingCancellationEvent struct {
	BookingID   uuid.UUID `json:"booking_id"`
	PropertyID  uuid.UUID `json:"property_id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	FeeCents    int64     `json:"fee_cents"`
	RefundCents int64     `json:"refund_cents"`
	CanceledAt  time.Time `json:"canceled_at"`
}

type BookingStatusEvent struct {
	BookingID uuid.UUID `json:"booking_id"`
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}

type PaymentRefundEvent struct {
	BookingID   uuid.UUID `json:"booking_id"`
	RefundCents int64     `json:"refund_cents"`
	RequestedAt time.Time `json:"requested_at"`
}
