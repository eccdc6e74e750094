package models

// Notification is a persisted fan-out record derived from a ledger transition
// or a content interaction. A user is never notified of their own action.
type Notification struct {
	NotificationID string `dynamodbav:"notificationId" json:"notificationId"`
	RecipientID    string `dynamodbav:"recipientId" json:"recipientId"`
	Type           string `dynamodbav:"type" json:"type"` // like, comment, connectionAccepted
	RelatedUserID  string `dynamodbav:"relatedUserId" json:"relatedUserId"`
	RelatedPostID  string `dynamodbav:"relatedPostId,omitempty" json:"relatedPostId,omitempty"`
	Read           bool   `dynamodbav:"read" json:"read"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
}

// NotificationWithProfile joins a notification with the acting user's
// public profile for list responses.
type NotificationWithProfile struct {
	Notification
	RelatedUser *PublicProfile `json:"relatedUser,omitempty"`
}

// NotificationsTable is the DynamoDB table name for notifications
const NotificationsTable = "Notifications"

// NotificationRecipientIndex is the GSI keyed by recipientId with createdAt
// as the range key, so lists come back newest first.
const NotificationRecipientIndex = "recipient-index"
