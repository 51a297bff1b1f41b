package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"sync"
	"time"

	"github.com/Wyydra/meet/internal/core/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	exchangeKind     = "fanout"
	defaultExchange  = "meet.events"
	backoffBase      = time.Second
	backoffCap       = 30 * time.Second
	backoffJitterPct = 25
)

type Config struct {
	URL      string
	Exchange string
	// Dialer overrides amqp.Dial.
	Dialer func(url string) (*amqp.Connection, error)
}

// Sink receives events consumed from the exchange.
type Sink interface {
	PublishEvent(ctx context.Context, event domain.Event) error
}

// Bus fans domain events out to every server instance bound to the same
// exchange. It implements port.EventPublisher.
type Bus struct {
	cfg Config
	now func() time.Time

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func Dial(ctx context.Context, cfg Config) (*Bus, error) {
	if cfg.URL == "" {
		return nil, errors.New("rabbitmq URL is required")
	}
	if cfg.Exchange == "" {
		cfg.Exchange = defaultExchange
	}
	if cfg.Dialer == nil {
		cfg.Dialer = amqp.Dial
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := &Bus{cfg: cfg, now: time.Now}
	if err := b.connect(); err != nil {
		return nil, err
	}
	log.Info().Str("host", hostOf(cfg.URL)).Str("exchange", cfg.Exchange).Msg("Connected to RabbitMQ")
	return b, nil
}

func (b *Bus) connect() error {
	conn, err := b.cfg.Dialer(b.cfg.URL)
	if err != nil {
		return fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(b.cfg.Exchange, exchangeKind, true, false, false, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("declare exchange %q: %w", b.cfg.Exchange, err)
	}

	b.mu.Lock()
	old := b.conn
	b.conn, b.ch = conn, ch
	b.mu.Unlock()
	if old != nil && !old.IsClosed() {
		old.Close()
	}
	return nil
}

func (b *Bus) PublishEvent(ctx context.Context, event domain.Event) error {
	env := newEnvelope(event, b.now())
	body, err := encodeEnvelope(env)
	if err != nil {
		return err
	}

	b.mu.Lock()
	ch := b.ch
	b.mu.Unlock()
	if ch == nil || ch.IsClosed() {
		return errors.New("rabbitmq channel closed")
	}

	err = ch.PublishWithContext(ctx, b.cfg.Exchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   env.Meta.ID,
		Type:        env.Meta.Type,
		Timestamp:   env.Meta.Time,
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Name, err)
	}
	return nil
}

// Consume binds an exclusive queue to the exchange and forwards every event
// to sink until ctx is cancelled. Lost connections are redialed with
// jittered exponential backoff.
func (b *Bus) Consume(ctx context.Context, sink Sink) error {
	backoff := backoffBase
	for {
		err := b.consumeOnce(ctx, sink)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Error().Err(err).Msg("RabbitMQ consumer stopped, reconnecting")

		for {
			wait := jitteredDelay(backoff, backoffCap, backoffJitterPct)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			if rerr := b.connect(); rerr != nil {
				log.Error().Err(rerr).Dur("retry_in", wait).Msg("Reconnect failed")
				if backoff*2 < backoffCap {
					backoff *= 2
				}
				continue
			}
			backoff = backoffBase
			break
		}
	}
}

func (b *Bus) consumeOnce(ctx context.Context, sink Sink) error {
	b.mu.Lock()
	conn := b.conn
	b.mu.Unlock()
	if conn == nil || conn.IsClosed() {
		return errors.New("rabbitmq connection closed")
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open consumer channel: %w", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", b.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	msgs, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	closed := ch.NotifyClose(make(chan *amqp.Error, 1))
	log.Info().Str("queue", q.Name).Msg("RabbitMQ consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case aerr := <-closed:
			if aerr == nil {
				return errors.New("consumer channel closed")
			}
			return aerr
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			handleDelivery(ctx, sink, d.Body)
		}
	}
}

func handleDelivery(ctx context.Context, sink Sink, body []byte) {
	env, err := decodeEnvelope(body)
	if err != nil {
		log.Warn().Err(err).Msg("Dropping undecodable event")
		return
	}
	if err := sink.PublishEvent(ctx, env.Data); err != nil {
		log.Error().Err(err).Str("event", env.Meta.Type).Str("id", env.Meta.ID).Msg("Error forwarding event")
	}
}

func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil || b.conn.IsClosed() {
		return nil
	}
	return b.conn.Close()
}

func jitteredDelay(base, limit time.Duration, jitterPct int) time.Duration {
	delta := (rand.Float64()*2 - 1) * float64(jitterPct) / 100.0
	wait := time.Duration(float64(base) * (1 + delta))
	if wait < 0 {
		wait = base
	}
	if wait > limit {
		wait = limit
	}
	return wait
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
