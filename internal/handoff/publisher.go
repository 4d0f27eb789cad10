package handoff

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/festa/internal/domain"
	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
)

// DefaultSubject is the subject submitted orders are published on.
const DefaultSubject = "festa.orders.submitted"

// Publisher announces submitted orders to the rest of the store.
type Publisher interface {
	Publish(ctx context.Context, o *domain.Order) error
}

// OrderSubmitted is the event body published for each order.
type OrderSubmitted struct {
	OrderID       string          `json:"order_id"`
	Number        string          `json:"number"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Total         decimal.Decimal `json:"total"`
	Summary       string          `json:"summary"`
	Lines         json.RawMessage `json:"lines"`
	SubmittedAt   time.Time       `json:"submitted_at"`
}

func newOrderSubmitted(o *domain.Order) OrderSubmitted {
	return OrderSubmitted{
		OrderID:       o.ID.String(),
		Number:        o.DisplayNumber(),
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		Total:         o.Total,
		Summary:       o.Summary,
		Lines:         o.Lines,
		SubmittedAt:   o.CreatedAt,
	}
}

// NATSPublisher publishes orders to a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url, subject string, logger *slog.Logger) (*NATSPublisher, error) {
	if subject == "" {
		subject = DefaultSubject
	}

	conn, err := nats.Connect(url,
		nats.Name("festa"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	return &NATSPublisher{conn: conn, subject: subject, logger: logger}, nil
}

// Publish sends the order event and waits for the server to acknowledge the
// flush. The order ID is used as the message ID so redeliveries can be deduped.
func (p *NATSPublisher) Publish(ctx context.Context, o *domain.Order) error {
	data, err := json.Marshal(newOrderSubmitted(o))
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}

	msg := nats.NewMsg(p.subject)
	msg.Header.Set(nats.MsgIdHdr, o.ID.String())
	msg.Data = data

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish order %s: %w", o.DisplayNumber(), err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush order %s: %w", o.DisplayNumber(), err)
	}

	p.logger.Debug("order published", "subject", p.subject, "order", o.DisplayNumber())
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// LogPublisher logs orders instead of publishing them. Used when no NATS
// server is configured.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) Publish(_ context.Context, o *domain.Order) error {
	p.Logger.Info("order submitted",
		"order", o.DisplayNumber(),
		"customer", o.CustomerName,
		"total", o.Total.StringFixed(2),
	)
	return nil
}
