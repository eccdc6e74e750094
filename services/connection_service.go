package services

import (
	"context"
	"fmt"
	"time"

	"linkup_server/apperrors"
	"linkup_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConnectionService owns the connection-request ledger: the pending →
// accepted/rejected lifecycle, the symmetric connections sets, and the
// derived status projection. Every state transition that touches more than
// one item rides a single TransactWriteItems so concurrent callers cannot
// split the invariants.
type ConnectionService struct {
	Dynamo        DynamoAPI
	Users         *UserService
	Notifications *NotificationService
	Outbox        *OutboxService
	Logger        *zap.Logger
}

// SendRequest creates a pending connection request from the actor to
// recipientID. The pair's pending marker is conditional-put in the same
// transaction, which is what enforces at-most-one pending request per pair
// even under concurrent sends in both directions.
func (s *ConnectionService) SendRequest(ctx context.Context, actor *models.UserProfile, recipientID string) (*models.ConnectionRequest, error) {
	if recipientID == actor.UserID {
		return nil, apperrors.NewInvalidRequest("You cannot send a connection request to yourself")
	}

	recipient, err := s.Users.GetProfile(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, apperrors.NewInvalidRequest("Recipient does not exist")
	}

	if actor.IsConnectedTo(recipientID) {
		return nil, apperrors.NewConflict("You are already connected with this user")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	pairKey := models.PairKeyFor(actor.UserID, recipientID)
	request := models.ConnectionRequest{
		RequestID:   uuid.New().String(),
		SenderID:    actor.UserID,
		RecipientID: recipientID,
		PairKey:     pairKey,
		Status:      models.RequestStatusPending,
		CreatedAt:   now,
	}
	marker := models.PendingMarker{
		RequestID:        models.PendingMarkerID(pairKey),
		CurrentRequestID: request.RequestID,
		PairKey:          pairKey,
		CreatedAt:        now,
	}

	requestItem, err := attributevalue.MarshalMap(request)
	if err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to marshal request: %w", err))
	}
	markerItem, err := attributevalue.MarshalMap(marker)
	if err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to marshal marker: %w", err))
	}

	err = s.Dynamo.TransactWriteItems(ctx, []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(models.ConnectionRequestsTable),
				Item:                markerItem,
				ConditionExpression: aws.String("attribute_not_exists(requestId)"),
			},
		},
		{
			Put: &types.Put{
				TableName: aws.String(models.ConnectionRequestsTable),
				Item:      requestItem,
			},
		},
	})
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return nil, apperrors.NewConflict("A connection request is already pending between you")
		}
		return nil, apperrors.NewInternal(err)
	}

	s.Logger.Info("connection request sent",
		zap.String("requestId", request.RequestID),
		zap.String("senderId", actor.UserID),
		zap.String("recipientId", recipientID),
	)
	return &request, nil
}

// Accept resolves a pending request. The status flip, both connection-set
// updates, the marker release and the connectionAccepted notification commit
// as one unit; a concurrent accept loses the status=pending condition and
// surfaces as Conflict without double-firing the notification.
func (s *ConnectionService) Accept(ctx context.Context, actorID, requestID string) (*models.ConnectionRequest, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperrors.NewNotFound("Connection request")
	}
	if request.RecipientID != actorID {
		return nil, apperrors.NewForbidden("Only the recipient can accept this request")
	}
	if request.Status != models.RequestStatusPending {
		return nil, apperrors.NewConflict("This request has already been resolved")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	notification := models.Notification{
		NotificationID: uuid.New().String(),
		RecipientID:    request.SenderID,
		Type:           models.NotificationTypeConnectionAccepted,
		RelatedUserID:  request.RecipientID,
		Read:           false,
		CreatedAt:      now,
	}
	notificationItem, err := attributevalue.MarshalMap(notification)
	if err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to marshal notification: %w", err))
	}

	items := []types.TransactWriteItem{
		s.statusTransition(requestID, models.RequestStatusAccepted, now),
		s.markerRelease(request.PairKey, requestID),
		connectionsAdd(request.SenderID, request.RecipientID),
		connectionsAdd(request.RecipientID, request.SenderID),
		{
			Put: &types.Put{
				TableName: aws.String(models.NotificationsTable),
				Item:      notificationItem,
			},
		},
	}
	if err := s.Dynamo.TransactWriteItems(ctx, items); err != nil {
		if IsConditionalCheckFailed(err) {
			return nil, apperrors.NewConflict("This request has already been resolved")
		}
		return nil, apperrors.NewInternal(err)
	}

	request.Status = models.RequestStatusAccepted
	s.Logger.Info("connection request accepted",
		zap.String("requestId", requestID),
		zap.String("senderId", request.SenderID),
		zap.String("recipientId", request.RecipientID),
	)

	// Secondary effects are best-effort once the transaction committed.
	if s.Notifications != nil {
		s.Notifications.Broadcast(notification)
	}
	s.enqueueAcceptedEmail(ctx, request)

	return request, nil
}

// Reject resolves a pending request without touching either connections set.
func (s *ConnectionService) Reject(ctx context.Context, actorID, requestID string) (*models.ConnectionRequest, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperrors.NewNotFound("Connection request")
	}
	if request.RecipientID != actorID {
		return nil, apperrors.NewForbidden("Only the recipient can reject this request")
	}
	if request.Status != models.RequestStatusPending {
		return nil, apperrors.NewConflict("This request has already been resolved")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	items := []types.TransactWriteItem{
		s.statusTransition(requestID, models.RequestStatusRejected, now),
		s.markerRelease(request.PairKey, requestID),
	}
	if err := s.Dynamo.TransactWriteItems(ctx, items); err != nil {
		if IsConditionalCheckFailed(err) {
			return nil, apperrors.NewConflict("This request has already been resolved")
		}
		return nil, apperrors.NewInternal(err)
	}

	request.Status = models.RequestStatusRejected
	s.Logger.Info("connection request rejected",
		zap.String("requestId", requestID),
		zap.String("recipientId", request.RecipientID),
	)
	return request, nil
}

// ListIncoming returns the actor's pending incoming requests with the
// sender's public profile attached.
func (s *ConnectionService) ListIncoming(ctx context.Context, actorID string) ([]models.RequestWithProfile, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.ConnectionRequestsTable, models.RecipientIndex,
		"recipientId = :recipient",
		map[string]types.AttributeValue{":recipient": StringAttr(actorID)},
		nil, 0, true)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}

	var requests []models.ConnectionRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to unmarshal requests: %w", err))
	}

	result := make([]models.RequestWithProfile, 0, len(requests))
	for _, request := range requests {
		if request.Status != models.RequestStatusPending {
			continue
		}
		entry := models.RequestWithProfile{ConnectionRequest: request}
		sender, err := s.Users.GetProfile(ctx, request.SenderID)
		if err != nil {
			return nil, err
		}
		if sender != nil {
			public := sender.Public()
			entry.Sender = &public
		}
		result = append(result, entry)
	}
	return result, nil
}

// ListConnections returns the public profiles of the actor's connections.
func (s *ConnectionService) ListConnections(ctx context.Context, actor *models.UserProfile) ([]models.PublicProfile, error) {
	return s.Users.PublicProfiles(ctx, actor.Connections)
}

// Remove tears a connection down symmetrically. The conditional DELETE on
// the actor's set doubles as the existence check: removing a pair that is
// not connected is NotFound, not a silent no-op.
func (s *ConnectionService) Remove(ctx context.Context, actorID, otherID string) error {
	if otherID == actorID {
		return apperrors.NewInvalidRequest("You cannot remove yourself")
	}

	items := []types.TransactWriteItem{
		connectionsDelete(actorID, otherID, true),
		connectionsDelete(otherID, actorID, false),
	}
	if err := s.Dynamo.TransactWriteItems(ctx, items); err != nil {
		if IsConditionalCheckFailed(err) {
			return apperrors.NewNotFound("Connection")
		}
		return apperrors.NewInternal(err)
	}

	s.Logger.Info("connection removed",
		zap.String("actorId", actorID),
		zap.String("otherId", otherID),
	)
	return nil
}

// Status is a pure projection over the identity store and the ledger:
// connected, pending (actor sent), received (actor can act, request id
// surfaced), or not_connected. Nothing here is stored.
func (s *ConnectionService) Status(ctx context.Context, actor *models.UserProfile, otherID string) (*models.ConnectionStatus, error) {
	if actor.IsConnectedTo(otherID) {
		return &models.ConnectionStatus{Status: models.ConnectionStatusConnected}, nil
	}

	pairKey := models.PairKeyFor(actor.UserID, otherID)
	markerItem, err := s.Dynamo.GetItem(ctx, models.ConnectionRequestsTable,
		Key("requestId", models.PendingMarkerID(pairKey)))
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	if markerItem == nil {
		return &models.ConnectionStatus{Status: models.ConnectionStatusNotConnected}, nil
	}

	var marker models.PendingMarker
	if err := attributevalue.UnmarshalMap(markerItem, &marker); err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to unmarshal marker: %w", err))
	}

	request, err := s.getRequest(ctx, marker.CurrentRequestID)
	if err != nil {
		return nil, err
	}
	if request == nil || request.Status != models.RequestStatusPending {
		// Marker left behind by a resolved request; treat as no open request.
		return &models.ConnectionStatus{Status: models.ConnectionStatusNotConnected}, nil
	}

	if request.SenderID == actor.UserID {
		return &models.ConnectionStatus{Status: models.ConnectionStatusPending}, nil
	}
	return &models.ConnectionStatus{Status: models.ConnectionStatusReceived, RequestID: request.RequestID}, nil
}

func (s *ConnectionService) getRequest(ctx context.Context, requestID string) (*models.ConnectionRequest, error) {
	item, err := s.Dynamo.GetItem(ctx, models.ConnectionRequestsTable, Key("requestId", requestID))
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	if item == nil {
		return nil, nil
	}

	var request models.ConnectionRequest
	if err := attributevalue.UnmarshalMap(item, &request); err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to unmarshal request: %w", err))
	}
	return &request, nil
}

// statusTransition flips a request's status, guarded on it still being pending.
func (s *ConnectionService) statusTransition(requestID, newStatus, resolvedAt string) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:           aws.String(models.ConnectionRequestsTable),
			Key:                 Key("requestId", requestID),
			UpdateExpression:    aws.String("SET #status = :status, resolvedAt = :resolvedAt"),
			ConditionExpression: aws.String("#status = :pending"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":status":     StringAttr(newStatus),
				":pending":    StringAttr(models.RequestStatusPending),
				":resolvedAt": StringAttr(resolvedAt),
			},
		},
	}
}

// markerRelease deletes the pair's pending marker, guarded on it still
// pointing at the request being resolved.
func (s *ConnectionService) markerRelease(pairKey, requestID string) types.TransactWriteItem {
	return types.TransactWriteItem{
		Delete: &types.Delete{
			TableName:           aws.String(models.ConnectionRequestsTable),
			Key:                 Key("requestId", models.PendingMarkerID(pairKey)),
			ConditionExpression: aws.String("currentRequestId = :requestId"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":requestId": StringAttr(requestID),
			},
		},
	}
}

func connectionsAdd(userID, otherID string) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:           aws.String(models.UserProfilesTable),
			Key:                 Key("userId", userID),
			UpdateExpression:    aws.String("ADD connections :other"),
			ConditionExpression: aws.String("attribute_exists(userId)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":other": StringSetAttr(otherID),
			},
		},
	}
}

func connectionsDelete(userID, otherID string, mustContain bool) types.TransactWriteItem {
	update := &types.Update{
		TableName:        aws.String(models.UserProfilesTable),
		Key:              Key("userId", userID),
		UpdateExpression: aws.String("DELETE connections :other"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":other": StringSetAttr(otherID),
		},
	}
	if mustContain {
		update.ConditionExpression = aws.String("contains(connections, :otherId)")
		update.ExpressionAttributeValues[":otherId"] = StringAttr(otherID)
	}
	return types.TransactWriteItem{Update: update}
}

func (s *ConnectionService) enqueueAcceptedEmail(ctx context.Context, request *models.ConnectionRequest) {
	if s.Outbox == nil {
		return
	}

	sender, err := s.Users.GetProfile(ctx, request.SenderID)
	if err != nil || sender == nil {
		s.Logger.Warn("skipping accepted-connection email, sender profile unavailable",
			zap.String("senderId", request.SenderID), zap.Error(err))
		return
	}
	recipient, err := s.Users.GetProfile(ctx, request.RecipientID)
	if err != nil || recipient == nil {
		s.Logger.Warn("skipping accepted-connection email, recipient profile unavailable",
			zap.String("recipientId", request.RecipientID), zap.Error(err))
		return
	}

	event := models.OutboxEvent{
		EventType:      models.OutboxEventConnectionAcceptedEmail,
		RecipientEmail: sender.Email,
		RecipientName:  sender.Name,
		ActorName:      recipient.Name,
	}
	if err := s.Outbox.Enqueue(ctx, event); err != nil {
		s.Logger.Error("failed to enqueue accepted-connection email", zap.Error(err))
	}
}
