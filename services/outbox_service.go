package services

import (
	"context"
	"fmt"
	"time"

	"linkup_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OutboxService persists secondary-effect events at the point of a primary
// state change and dispatches them from a background loop with its own retry
// budget. Enqueue is cheap and durable; delivery never holds a request open.
type OutboxService struct {
	Dynamo DynamoAPI
	Email  EmailSender
	Logger *zap.Logger

	BatchSize   int32
	Interval    time.Duration
	MaxAttempts int

	stopChan    chan struct{}
	stoppedChan chan struct{}
}

// NewOutboxService creates an outbox dispatcher with default pacing.
func NewOutboxService(dynamo DynamoAPI, email EmailSender, logger *zap.Logger) *OutboxService {
	return &OutboxService{
		Dynamo:      dynamo,
		Email:       email,
		Logger:      logger,
		BatchSize:   25,
		Interval:    5 * time.Second,
		MaxAttempts: 3,
		stopChan:    make(chan struct{}),
		stoppedChan: make(chan struct{}),
	}
}

// Enqueue durably records an event as pending.
func (s *OutboxService) Enqueue(ctx context.Context, event models.OutboxEvent) error {
	event.EventID = uuid.New().String()
	event.Status = models.OutboxStatusPending
	event.Attempts = 0
	event.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.Dynamo.PutItem(ctx, models.OutboxEventsTable, event)
}

// Start begins the background dispatch loop.
func (s *OutboxService) Start(ctx context.Context) {
	s.Logger.Info("starting outbox dispatcher",
		zap.Int32("batchSize", s.BatchSize),
		zap.Duration("interval", s.Interval),
	)
	go s.loop(ctx)
}

// Stop shuts the dispatch loop down and waits for it to drain.
func (s *OutboxService) Stop() {
	close(s.stopChan)
	<-s.stoppedChan
	s.Logger.Info("outbox dispatcher stopped")
}

func (s *OutboxService) loop(ctx context.Context) {
	defer close(s.stoppedChan)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			if err := s.ProcessBatch(ctx); err != nil {
				s.Logger.Error("outbox batch failed", zap.Error(err))
			}
		}
	}
}

// ProcessBatch dispatches up to BatchSize pending events. Exported so tests
// can drive the loop body directly.
func (s *OutboxService) ProcessBatch(ctx context.Context) error {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.OutboxEventsTable, models.OutboxStatusIndex,
		"#status = :pending",
		map[string]types.AttributeValue{":pending": StringAttr(models.OutboxStatusPending)},
		map[string]string{"#status": "status"},
		s.BatchSize, false)
	if err != nil {
		return fmt.Errorf("failed to query pending events: %w", err)
	}

	var events []models.OutboxEvent
	if err := attributevalue.UnmarshalListOfMaps(items, &events); err != nil {
		return fmt.Errorf("failed to unmarshal events: %w", err)
	}

	for _, event := range events {
		s.dispatch(ctx, event)
	}
	return nil
}

func (s *OutboxService) dispatch(ctx context.Context, event models.OutboxEvent) {
	var err error
	switch event.EventType {
	case models.OutboxEventConnectionAcceptedEmail:
		err = s.Email.SendConnectionAcceptedEmail(ctx, event.RecipientEmail, event.RecipientName, event.ActorName)
	default:
		err = fmt.Errorf("unknown event type %q", event.EventType)
	}

	if err == nil {
		s.markStatus(ctx, event.EventID, models.OutboxStatusSent, event.Attempts+1)
		return
	}

	s.Logger.Warn("outbox dispatch failed",
		zap.String("eventId", event.EventID),
		zap.String("eventType", event.EventType),
		zap.Int("attempts", event.Attempts+1),
		zap.Error(err),
	)

	status := models.OutboxStatusPending
	if event.Attempts+1 >= s.MaxAttempts {
		status = models.OutboxStatusFailed
	}
	s.markStatus(ctx, event.EventID, status, event.Attempts+1)
}

func (s *OutboxService) markStatus(ctx context.Context, eventID, status string, attempts int) {
	_, err := s.Dynamo.UpdateItem(ctx, models.OutboxEventsTable,
		"SET #status = :status, attempts = :attempts",
		Key("eventId", eventID),
		map[string]types.AttributeValue{
			":status":   StringAttr(status),
			":attempts": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", attempts)},
		},
		map[string]string{"#status": "status"})
	if err != nil {
		s.Logger.Error("failed to update outbox event",
			zap.String("eventId", eventID), zap.Error(err))
	}
}
