package extractionqueue

import (
	"context"
	"fmt"
	"heartshield-service/internal/pkg/constvars"
	"heartshield-service/internal/pkg/exceptions"
	"sync"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// DeadLetterSuffix is appended to the standard queue name to form the DLQ.
const DeadLetterSuffix = "_dlq"

// ExtractionQueueMessage represents one extraction job payload stored in RabbitMQ.
type ExtractionQueueMessage struct {
	JobID       string `json:"job_id"`
	DocumentID  string `json:"document_id"`
	UploaderRef string `json:"uploader_ref"`
	FailedCount int    `json:"failed_count"`
}

// Service manages interactions with the RabbitMQ queues backing extraction.
type Service struct {
	ch            *amqp.Channel
	log           *zap.Logger
	prefetch      int
	standardQueue string
	deadQueue     string
	confirms      chan amqp.Confirmation
	mu            sync.Mutex
}

// NewService initializes the queue service, declares durable queues, enables confirms, and sets QoS.
func NewService(conn *amqp.Connection, log *zap.Logger, prefetch int, queueName string) (*Service, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	deadQueue := queueName + DeadLetterSuffix

	// Declare standard queue (durable)
	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	)
	if err != nil {
		return nil, exceptions.ErrRabbitMQDeclareQueue(err, queueName)
	}

	// Declare dead-letter queue (durable)
	_, err = ch.QueueDeclare(
		deadQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, exceptions.ErrRabbitMQDeclareQueue(err, deadQueue)
	}

	// Set QoS to limit unacked deliveries in-flight
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}

	// Enable publisher confirms for durability guarantees
	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	svc := &Service{
		ch:            ch,
		log:           log,
		prefetch:      prefetch,
		standardQueue: queueName,
		deadQueue:     deadQueue,
		confirms:      ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}

	return svc, nil
}

// EnqueueInput defines input for enqueue operation.
type EnqueueInput struct {
	Message ExtractionQueueMessage
}

// EnqueueOutput defines output for enqueue.
type EnqueueOutput struct{}

// EnqueueToDLQInput defines input for DLQ enqueue operation.
type EnqueueToDLQInput struct {
	Message ExtractionQueueMessage
}

// EnqueueToDLQOutput defines output for DLQ enqueue.
type EnqueueToDLQOutput struct{}

// ReenqueueInput defines input for reenqueueing a modified message back to the standard queue tail.
type ReenqueueInput struct {
	Message ExtractionQueueMessage
}

// ReenqueueOutput defines output for reenqueue.
type ReenqueueOutput struct{}

// FetchNInput specifies the maximum number of messages to fetch.
type FetchNInput struct {
	Max int
}

// QueuedItem represents a fetched delivery and its decoded payload.
type QueuedItem struct {
	DeliveryTag uint64
	Message     ExtractionQueueMessage
}

// FetchNOutput returns up to N messages.
type FetchNOutput struct {
	Items []QueuedItem
}

// AckMessageInput acknowledges a message so it is removed from the queue.
type AckMessageInput struct {
	DeliveryTag uint64
}

// AckMessageOutput is empty.
type AckMessageOutput struct{}

// Enqueue publishes a message to the standard queue with persistence and waits for confirm.
func (s *Service) Enqueue(ctx context.Context, in *EnqueueInput) (*EnqueueOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("ExtractionQueue.Enqueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobIDKey, in.Message.JobID),
	)

	body, err := json.Marshal(in.Message)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	if err := s.publishConfirmed(ctx, s.standardQueue, body); err != nil {
		return nil, err
	}
	return &EnqueueOutput{}, nil
}

// Reenqueue publishes the (possibly modified) message to the tail of the standard queue and confirms.
func (s *Service) Reenqueue(ctx context.Context, in *ReenqueueInput) (*ReenqueueOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("ExtractionQueue.Reenqueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobIDKey, in.Message.JobID),
		zap.Int(constvars.LoggingAttemptKey, in.Message.FailedCount),
	)

	body, err := json.Marshal(in.Message)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	if err := s.publishConfirmed(ctx, s.standardQueue, body); err != nil {
		return nil, err
	}
	return &ReenqueueOutput{}, nil
}

// EnqueueToDeadQueue publishes the message to DLQ and confirms.
func (s *Service) EnqueueToDeadQueue(ctx context.Context, in *EnqueueToDLQInput) (*EnqueueToDLQOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("ExtractionQueue.EnqueueToDeadQueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobIDKey, in.Message.JobID),
	)

	body, err := json.Marshal(in.Message)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	if err := s.publishConfirmed(ctx, s.deadQueue, body); err != nil {
		return nil, err
	}
	return &EnqueueToDLQOutput{}, nil
}

// FetchN retrieves up to N messages using basic.get without auto-ack.
func (s *Service) FetchN(ctx context.Context, in *FetchNInput) (*FetchNOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("ExtractionQueue.FetchN called", zap.String(constvars.LoggingRequestIDKey, requestID))

	n := in.Max
	if n <= 0 {
		n = 1
	}
	items := make([]QueuedItem, 0, n)

	for i := 0; i < n; i++ {
		d, ok, err := s.ch.Get(s.standardQueue, false)
		if err != nil {
			return nil, exceptions.ErrRabbitMQConsumeMessage(err, s.standardQueue)
		}
		if !ok {
			break
		}
		var payload ExtractionQueueMessage
		if err := json.Unmarshal(d.Body, &payload); err != nil {
			// If payload is invalid JSON, move to DLQ to avoid poison message loop
			_ = d.Ack(false)
			_ = s.publishConfirmed(ctx, s.deadQueue, d.Body)
			continue
		}
		items = append(items, QueuedItem{DeliveryTag: d.DeliveryTag, Message: payload})
	}

	return &FetchNOutput{Items: items}, nil
}

// AckMessage acknowledges a message by delivery tag.
func (s *Service) AckMessage(ctx context.Context, in *AckMessageInput) (*AckMessageOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("ExtractionQueue.AckMessage called", zap.String(constvars.LoggingRequestIDKey, requestID))
	if err := s.ch.Ack(in.DeliveryTag, false); err != nil {
		return nil, err
	}
	return &AckMessageOutput{}, nil
}

// publishConfirmed serializes access to the channel and waits for the broker confirm.
func (s *Service) publishConfirmed(ctx context.Context, queue string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}

	if err := s.ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, queue)
	}

	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), queue)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), queue)
	}
	return nil
}
