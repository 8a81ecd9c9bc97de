package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/go-redis/redis/v8"
)

// ======================================================
// Events
// ======================================================

type Kind string

const (
	KindInsert Kind = "insert"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
)

// Event é a notificação de mudança de linha publicada no canal da
// tabela. ClientID escopa eventos de agendamento por cliente.
type Event struct {
	Table    string          `json:"table"`
	Kind     Kind            `json:"kind"`
	ClientID string          `json:"client_id,omitempty"`
	New      json.RawMessage `json:"new,omitempty"`
	Old      json.RawMessage `json:"old,omitempty"`
}

func channelFor(table string) string {
	return "rt:" + table
}

// ======================================================
// Redis client
// ======================================================

// NewRedis devolve o cliente Redis ou nil quando indisponível;
// sem Redis o push de eventos vira no-op e os feeds servem apenas
// a carga inicial.
func NewRedis(ctx context.Context, addr, password string) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("realtime: redis not available: %v", err)
		return nil
	}
	return client
}

// ======================================================
// Bus
// ======================================================

type Bus struct {
	rdb *redis.Client
}

func NewBus(rdb *redis.Client) *Bus {
	return &Bus{rdb: rdb}
}

// Publish envia o evento para o canal da tabela. Falha de publish
// nunca quebra a operação que a originou.
func (b *Bus) Publish(ctx context.Context, ev Event) {
	if b == nil || b.rdb == nil {
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		log.Println("realtime: marshal event:", err)
		return
	}

	if err := b.rdb.Publish(ctx, channelFor(ev.Table), payload).Err(); err != nil {
		log.Println("realtime: publish:", err)
	}
}

// PublishRow serializa a linha nova (insert/update) ou antiga
// (delete) e publica o evento.
func (b *Bus) PublishRow(ctx context.Context, table string, kind Kind, clientID string, row any) {
	if b == nil || b.rdb == nil {
		return
	}

	payload, err := json.Marshal(row)
	if err != nil {
		log.Println("realtime: marshal row:", err)
		return
	}

	ev := Event{
		Table:    table,
		Kind:     kind,
		ClientID: clientID,
	}
	if kind == KindDelete {
		ev.Old = payload
	} else {
		ev.New = payload
	}

	b.Publish(ctx, ev)
}

// ======================================================
// Subscription
// ======================================================

// Subscription entrega os eventos de uma tabela, na ordem de
// chegada, por um único canal; Close encerra a entrega.
type Subscription struct {
	pubsub *redis.PubSub
	ch     chan Event
}

// NewSubscription embrulha um canal de eventos já existente, para
// fontes que não passam pelo Redis.
func NewSubscription(ch chan Event) *Subscription {
	return &Subscription{ch: ch}
}

// Subscribe abre uma assinatura para a tabela; clientID não vazio
// filtra os eventos pelo dono da linha.
func (b *Bus) Subscribe(ctx context.Context, table, clientID string) *Subscription {
	if b == nil || b.rdb == nil {
		// sem redis: assinatura que nunca produz eventos
		return &Subscription{ch: make(chan Event)}
	}

	pubsub := b.rdb.Subscribe(ctx, channelFor(table))
	sub := &Subscription{
		pubsub: pubsub,
		ch:     make(chan Event, 16),
	}

	go func() {
		defer close(sub.ch)
		for msg := range pubsub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Println("realtime: decode event:", err)
				continue
			}
			if clientID != "" && ev.ClientID != clientID {
				continue
			}
			select {
			case sub.ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub
}

func (s *Subscription) Events() <-chan Event {
	return s.ch
}

func (s *Subscription) Close() {
	if s.pubsub != nil {
		_ = s.pubsub.Close()
	}
}
