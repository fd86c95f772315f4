package natsstan

import (
	"context"
	"fmt"
	"log"
	"time"

	stan "github.com/nats-io/stan.go"
)

const (
	queueGroup     = "dispatch-address-warmers"
	handlerTimeout = 15 * time.Second
	ackWait        = 30 * time.Second
)

// Handler processes one message. A non-nil error leaves the message
// unacknowledged so the server redelivers it.
type Handler func(ctx context.Context, raw []byte) error

// Subscriber consumes order events from a NATS Streaming channel with a
// durable queue subscription and manual acks.
type Subscriber struct {
	ClusterID string
	ClientID  string
	URL       string
	Subject   string
	Durable   string
}

// Subscribe connects and starts delivering messages to handler until ctx is done.
func (s *Subscriber) Subscribe(ctx context.Context, handler Handler) error {
	clientID := s.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("dispatch-svc-%d", time.Now().UnixNano())
	}

	sc, err := stan.Connect(s.ClusterID, clientID, stan.NatsURL(s.URL))
	if err != nil {
		return fmt.Errorf("natsstan: connect cluster=%q url=%q: %w", s.ClusterID, s.URL, err)
	}

	_, err = sc.QueueSubscribe(s.Subject, queueGroup, func(m *stan.Msg) {
		deliver(m.Data, m.Sequence, handler, m.Ack)
	},
		stan.DurableName(s.durable()),
		stan.SetManualAckMode(),
		stan.AckWait(ackWait),
		stan.DeliverAllAvailable(),
	)
	if err != nil {
		sc.Close()
		return fmt.Errorf("natsstan: subscribe subject=%q: %w", s.Subject, err)
	}

	go func() {
		<-ctx.Done()
		sc.Close()
	}()

	log.Printf("natsstan: subscribed subject=%s queue=%s durable=%s", s.Subject, queueGroup, s.durable())
	return nil
}

func (s *Subscriber) durable() string {
	if s.Durable == "" {
		return queueGroup
	}
	return s.Durable
}

// deliver runs handler on one message and acks it only on success.
func deliver(data []byte, seq uint64, handler Handler, ack func() error) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if err := handler(ctx, data); err != nil {
		log.Printf("natsstan: seq=%d handler error, leaving for redelivery: %v", seq, err)
		return
	}
	if err := ack(); err != nil {
		log.Printf("natsstan: seq=%d ack failed: %v", seq, err)
	}
}
