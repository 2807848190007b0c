package messaging

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"inventory/internal/domain/model"

	"github.com/segmentio/kafka-go"
)

const (
	batchTimeout = 10 * time.Millisecond
	writeTimeout = 5 * time.Second
)

// kafka.Writer のうち使う部分だけ
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// 注文イベントをKafkaに送る
type KafkaOrderPublisher struct {
	writer MessageWriter
}

func NewKafkaOrderPublisher(brokers []string, topic string) *KafkaOrderPublisher {
	return NewKafkaOrderPublisherWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           batchTimeout,
		WriteTimeout:           writeTimeout,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	})
}

func NewKafkaOrderPublisherWithWriter(w MessageWriter) *KafkaOrderPublisher {
	return &KafkaOrderPublisher{writer: w}
}

// keyは注文ID。同じ注文のイベントは同じパーティションに入る
func (p *KafkaOrderPublisher) Publish(ctx context.Context, ev model.OrderEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(ev.OrderID, 10)),
		Value: data,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	})
}

func (p *KafkaOrderPublisher) Close() error {
	return p.writer.Close()
}

// KAFKA_BROKERS 未設定のとき用
type NoopOrderPublisher struct{}

func (NoopOrderPublisher) Publish(context.Context, model.OrderEvent) error { return nil }
func (NoopOrderPublisher) Close() error                                    { return nil }
