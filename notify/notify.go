package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Message is a contact-form submission handed off for delivery. Actually
// sending the mail is someone else's job; we only publish the message.
type Message struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
}

// Publisher pushes contact messages onto a durable RabbitMQ queue.
type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// NewPublisher connects to RabbitMQ and declares the queue. An empty url
// returns a nil publisher, which disables the contact endpoint.
func NewPublisher(url, queue string) (*Publisher, error) {
	if url == "" {
		log.Println("rabbitmq url empty, contact notifications disabled")
		return nil, nil
	}
	if queue == "" {
		queue = "contact.queue"
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	log.Println("rabbitmq initialized, queue:", queue)
	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

// Enabled reports whether a broker connection is configured.
func (p *Publisher) Enabled() bool {
	return p != nil && p.ch != nil
}

// Publish assigns the message an id and a timestamp and puts it on the queue.
func (p *Publisher) Publish(ctx context.Context, msg Message) error {
	msg.ID = uuid.NewString()
	msg.SentAt = time.Now()
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Body:         body,
	})
}

// Close shuts down the channel and the connection.
func (p *Publisher) Close() {
	if !p.Enabled() {
		return
	}
	p.ch.Close()
	p.conn.Close()
}
