package producer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/rj_kafka/kafka/message"
	"github.com/RoyceAzure/lab/rj_kafka/kafka/producer"
)

const orderProcessedEventName = "order_processed"

// 通知為單向事件 傳送失敗由呼叫端記log 不影響取貨交易
// topic: 由producer創建時設置
type OrderNotifyProducer struct {
	producer producer.Producer
}

type IOrderNotifyProducer interface {
	ProduceOrderProcessed(ctx context.Context, notification model.OrderProcessedNotification) error
	Close() error
}

func NewOrderNotifyProducer(producer producer.Producer) *OrderNotifyProducer {
	return &OrderNotifyProducer{producer: producer}
}

func (p *OrderNotifyProducer) ProduceOrderProcessed(ctx context.Context, notification model.OrderProcessedNotification) error {
	msg, err := p.convertToMessage(notification)
	if err != nil {
		return err
	}

	return p.producer.Produce(ctx, []message.Message{msg})
}

func (p *OrderNotifyProducer) Close() error {
	return p.producer.Close()
}

func (p *OrderNotifyProducer) convertToMessage(notification model.OrderProcessedNotification) (message.Message, error) {
	value, err := json.Marshal(&notification)
	if err != nil {
		return message.Message{}, err
	}

	msg := message.Message{
		Key:   []byte(fmt.Sprintf("%d", notification.MemberID)),
		Value: value,
		Headers: []message.Header{
			{
				Key:   "event_type",
				Value: []byte(orderProcessedEventName),
			},
		},
	}

	return msg, nil
}

var _ IOrderNotifyProducer = (*OrderNotifyProducer)(nil)
