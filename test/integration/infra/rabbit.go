//go:build integration

package infra

import (
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// BindTempQueue declares the topic exchange and a server-named exclusive
// queue bound to bindingKey. The queue goes away with the channel.
func BindTempQueue(conn *amqp.Connection, exchange, bindingKey string) (*amqp.Channel, <-chan amqp.Delivery, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, nil, err
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, nil, err
	}
	if err := ch.QueueBind(q.Name, bindingKey, exchange, false, nil); err != nil {
		_ = ch.Close()
		return nil, nil, err
	}
	msgs, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, nil, err
	}
	return ch, msgs, nil
}

// ConsumeOne waits up to wait for a single delivery.
func ConsumeOne(msgs <-chan amqp.Delivery, wait time.Duration) (amqp.Delivery, bool) {
	select {
	case m := <-msgs:
		return m, true
	case <-time.After(wait):
		return amqp.Delivery{}, false
	}
}
