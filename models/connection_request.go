package models

import "strings"

// ConnectionRequest is one entry in the connection ledger. Requests are
// never deleted: accepted and rejected requests stay behind as history.
type ConnectionRequest struct {
	RequestID   string `dynamodbav:"requestId" json:"requestId"`
	SenderID    string `dynamodbav:"senderId" json:"senderId"`
	RecipientID string `dynamodbav:"recipientId" json:"recipientId"`
	PairKey     string `dynamodbav:"pairKey" json:"-"`
	Status      string `dynamodbav:"status" json:"status"`
	CreatedAt   string `dynamodbav:"createdAt" json:"createdAt"`
}

// RequestWithProfile joins a pending request with its sender's public profile
type RequestWithProfile struct {
	ConnectionRequest
	Sender *PublicProfile `json:"sender,omitempty"`
}

// PendingMarker enforces at-most-one pending request per user pair. It lives
// in the requests table under a reserved key and is created with an
// attribute_not_exists condition, then released inside the accept/reject
// transaction.
type PendingMarker struct {
	RequestID        string `dynamodbav:"requestId"`
	CurrentRequestID string `dynamodbav:"currentRequestId"`
	PairKey          string `dynamodbav:"pairKey"`
	CreatedAt        string `dynamodbav:"createdAt"`
}

// ConnectionStatus is the derived, read-only projection over the ledger and
// the identity store.
type ConnectionStatus struct {
	Status    string `json:"status"`
	RequestID string `json:"requestId,omitempty"`
}

// PairKeyFor builds the order-independent key for a user pair.
func PairKeyFor(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + "#" + b
}

// PendingMarkerID is the item key that locks a pair's single pending request.
func PendingMarkerID(pairKey string) string {
	return "PENDING#" + pairKey
}

// ConnectionRequestsTable is the DynamoDB table name for the ledger
const ConnectionRequestsTable = "ConnectionRequests"

// RecipientIndex is the GSI used to list a user's incoming requests
const RecipientIndex = "recipient-index"
