package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/daeldrn/fdashboardtemplate/internal/config"
	"github.com/daeldrn/fdashboardtemplate/internal/models"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

// TypeOperationRecorded is set as the AMQP message type.
const TypeOperationRecorded = "fuel.operation.recorded"

// DistributionPayload is one vehicle allocation inside an event.
type DistributionPayload struct {
	VehicleID uint            `json:"vehicleId"`
	Liters    decimal.Decimal `json:"liters"`
}

// OperationRecorded is published after an operation is committed.
type OperationRecorded struct {
	EventID        string                `json:"eventId"`
	PublishedAt    time.Time             `json:"publishedAt"`
	OperationID    uint                  `json:"operationId"`
	FuelCardID     uint                  `json:"fuelCardId"`
	CardNumber     string                `json:"numeroDeTarjeta,omitempty"`
	Currency       string                `json:"moneda,omitempty"`
	Kind           models.OperationKind  `json:"tipoOperacion"`
	OccurredAt     time.Time             `json:"fecha"`
	OpeningBalance decimal.Decimal       `json:"saldoInicio"`
	AmountMoney    decimal.Decimal       `json:"valorOperacionDinero"`
	AmountLiters   decimal.Decimal       `json:"valorOperacionLitros"`
	ClosingBalance decimal.Decimal       `json:"saldoFinal"`
	ClosingLiters  decimal.Decimal       `json:"saldoFinalLitros"`
	Distributions  []DistributionPayload `json:"fuelDistributions"`
}

// NewOperationRecorded builds the event body for op.
func NewOperationRecorded(op *models.FuelOperation, now time.Time) OperationRecorded {
	ev := OperationRecorded{
		EventID:        uuid.NewString(),
		PublishedAt:    now.UTC(),
		OperationID:    op.ID,
		FuelCardID:     op.FuelCardID,
		Kind:           op.Kind,
		OccurredAt:     op.OccurredAt.UTC(),
		OpeningBalance: op.OpeningBalance,
		AmountMoney:    op.AmountMoney,
		AmountLiters:   op.AmountLiters,
		ClosingBalance: op.ClosingBalance,
		ClosingLiters:  op.ClosingLiters,
		Distributions:  make([]DistributionPayload, 0, len(op.Distributions)),
	}
	if op.FuelCard != nil {
		ev.CardNumber = op.FuelCard.Number
		ev.Currency = op.FuelCard.Currency
	}
	for _, d := range op.Distributions {
		ev.Distributions = append(ev.Distributions, DistributionPayload{VehicleID: d.VehicleID, Liters: d.Liters})
	}
	return ev
}

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQPublisher publishes ledger events to a topic exchange.
type RabbitMQPublisher struct {
	mu         sync.Mutex
	conn       *amqp.Connection
	ch         channel
	exchange   string
	routingKey string
	now        func() time.Time
}

// NewRabbitMQPublisher connects, opens a channel and declares the exchange.
func NewRabbitMQPublisher(cfg config.RabbitMQConfig) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	p := newPublisher(ch, cfg.Exchange, cfg.RoutingKey)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange, routingKey string) *RabbitMQPublisher {
	return &RabbitMQPublisher{
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
		now:        time.Now,
	}
}

// PublishOperationRecorded sends a persistent JSON message for op.
func (p *RabbitMQPublisher) PublishOperationRecorded(ctx context.Context, op *models.FuelOperation) error {
	ev := NewOperationRecorded(op, p.now())
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Timestamp:    ev.PublishedAt,
		Type:         TypeOperationRecorded,
		Body:         body,
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close closes the channel and the connection.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			firstErr = err
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
