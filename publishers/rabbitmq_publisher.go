package publishers

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"imoveis-api/logger"
)

// ImovelEvent representa uma mensagem sobre uma mutação de imóvel
type ImovelEvent struct {
	Action   string `json:"action"` // "create", "update", "toggle"
	ImovelID uint   `json:"imovel_id"`
}

// Publisher publica eventos de mutação de imóveis para consumidores externos
// (ex.: um serviço de indexação de busca)
type Publisher interface {
	PublishImovelEvent(action string, imovelID uint)
	Close() error
}

// RabbitMQPublisher implementa Publisher sobre uma queue durável do RabbitMQ
type RabbitMQPublisher struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	queueName  string
}

// NewRabbitMQPublisher conecta no RabbitMQ e declara a queue de eventos
func NewRabbitMQPublisher(rabbitURL, queueName string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	logger.L.Info().Str("queue", queueName).Msg("rabbitmq publisher connected")

	return &RabbitMQPublisher{
		connection: conn,
		channel:    ch,
		queueName:  queueName,
	}, nil
}

// PublishImovelEvent publica o evento na queue. Falhas de publicação são
// logadas e nunca fazem a request falhar.
func (p *RabbitMQPublisher) PublishImovelEvent(action string, imovelID uint) {
	body, err := json.Marshal(ImovelEvent{Action: action, ImovelID: imovelID})
	if err != nil {
		logger.L.Error().Err(err).Msg("error marshaling imovel event")
		return
	}

	err = p.channel.Publish(
		"",          // exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		logger.L.Error().Err(err).Str("action", action).Uint("imovel_id", imovelID).
			Msg("error publishing imovel event")
		return
	}
	logger.L.Debug().Str("action", action).Uint("imovel_id", imovelID).Msg("imovel event published")
}

// Close fecha channel e conexão do RabbitMQ
func (p *RabbitMQPublisher) Close() error {
	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing channel: %w", err))
		}
	}
	if p.connection != nil {
		if err := p.connection.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ publisher: %v", errs)
	}
	return nil
}

// NoopPublisher descarta eventos; usado quando RABBITMQ_URL não está
// configurada
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (*NoopPublisher) PublishImovelEvent(string, uint) {}

func (*NoopPublisher) Close() error { return nil }
