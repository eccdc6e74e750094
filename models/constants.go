package models

// Connection request lifecycle statuses
const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusRejected = "rejected"
)

// Derived connection statuses returned by the status endpoint
const (
	ConnectionStatusConnected    = "connected"
	ConnectionStatusPending      = "pending"
	ConnectionStatusReceived     = "received"
	ConnectionStatusNotConnected = "not_connected"
)

// Notification types
const (
	NotificationTypeLike               = "like"
	NotificationTypeComment            = "comment"
	NotificationTypeConnectionAccepted = "connectionAccepted"
)

// Outbox event statuses
const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

// Outbox event types
const (
	OutboxEventConnectionAcceptedEmail = "connectionAcceptedEmail"
)
