package models

// OutboxEvent is a durable record of a secondary effect (currently email)
// emitted at the point of a primary state change. A background dispatcher
// consumes pending events with its own retry policy, so primary-mutation
// latency is decoupled from email delivery.
type OutboxEvent struct {
	EventID        string `dynamodbav:"eventId" json:"eventId"`
	EventType      string `dynamodbav:"eventType" json:"eventType"`
	Status         string `dynamodbav:"status" json:"status"`
	Attempts       int    `dynamodbav:"attempts" json:"attempts"`
	RecipientEmail string `dynamodbav:"recipientEmail" json:"recipientEmail"`
	RecipientName  string `dynamodbav:"recipientName" json:"recipientName"`
	ActorName      string `dynamodbav:"actorName" json:"actorName"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
}

// OutboxEventsTable is the DynamoDB table name for outbox events
const OutboxEventsTable = "OutboxEvents"

// OutboxStatusIndex is the GSI keyed by status with createdAt as range key
const OutboxStatusIndex = "status-index"
