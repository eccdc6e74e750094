package services

import (
	"context"
	"fmt"
	"time"

	"linkup_server/apperrors"
	"linkup_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationBroadcaster pushes a freshly created notification to the
// recipient's realtime channel. Implemented by the socket server.
type NotificationBroadcaster interface {
	PushNotification(userID string, notification models.Notification)
}

// NotificationService is the fan-out component: it turns ledger transitions
// and content interactions into persisted notification records, and owns the
// recipient-scoped read/delete operations.
type NotificationService struct {
	Dynamo      DynamoAPI
	Users       *UserService
	Broadcaster NotificationBroadcaster
	Logger      *zap.Logger
}

// NotifyContentLiked records a like notification for the content owner.
// Fan-out is best-effort relative to the like itself, and the no-self-notify
// invariant is applied here so every caller gets it uniformly.
func (s *NotificationService) NotifyContentLiked(ctx context.Context, actorID, ownerID, postID string) {
	s.create(ctx, models.Notification{
		RecipientID:   ownerID,
		Type:          models.NotificationTypeLike,
		RelatedUserID: actorID,
		RelatedPostID: postID,
	})
}

// NotifyContentCommented records a comment notification for the content
// owner. Every comment fires; there is no coalescing of repeated comments.
func (s *NotificationService) NotifyContentCommented(ctx context.Context, actorID, ownerID, postID string) {
	s.create(ctx, models.Notification{
		RecipientID:   ownerID,
		Type:          models.NotificationTypeComment,
		RelatedUserID: actorID,
		RelatedPostID: postID,
	})
}

func (s *NotificationService) create(ctx context.Context, n models.Notification) {
	if n.RecipientID == n.RelatedUserID {
		return
	}

	n.NotificationID = uuid.New().String()
	n.Read = false
	n.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := s.Dynamo.PutItem(ctx, models.NotificationsTable, n); err != nil {
		// Never fatal to the primary mutation: log and move on.
		s.Logger.Error("failed to persist notification",
			zap.String("type", n.Type),
			zap.String("recipientId", n.RecipientID),
			zap.Error(err),
		)
		return
	}
	s.Broadcast(n)
}

// Broadcast pushes an already-persisted notification to the recipient's
// realtime channel, when a broadcaster is wired.
func (s *NotificationService) Broadcast(n models.Notification) {
	if s.Broadcaster == nil {
		return
	}
	s.Broadcaster.PushNotification(n.RecipientID, n)
}

// List returns the recipient's notifications newest first, with the acting
// user's public profile attached.
func (s *NotificationService) List(ctx context.Context, recipientID string) ([]models.NotificationWithProfile, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.NotificationsTable, models.NotificationRecipientIndex,
		"recipientId = :recipient",
		map[string]types.AttributeValue{":recipient": StringAttr(recipientID)},
		nil, 0, true)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}

	var notifications []models.Notification
	if err := attributevalue.UnmarshalListOfMaps(items, &notifications); err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to unmarshal notifications: %w", err))
	}

	result := make([]models.NotificationWithProfile, 0, len(notifications))
	for _, n := range notifications {
		entry := models.NotificationWithProfile{Notification: n}
		related, err := s.Users.GetProfile(ctx, n.RelatedUserID)
		if err != nil {
			return nil, err
		}
		if related != nil {
			public := related.Public()
			entry.RelatedUser = &public
		}
		result = append(result, entry)
	}
	return result, nil
}

// MarkAsRead flips read to true for the caller's own notification.
// Idempotent: marking an already-read notification succeeds unchanged.
func (s *NotificationService) MarkAsRead(ctx context.Context, actorID, notificationID string) (*models.Notification, error) {
	existing, err := s.getNotification(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.NewNotFound("Notification")
	}
	if existing.RecipientID != actorID {
		return nil, apperrors.NewForbidden("This notification does not belong to you")
	}

	attrs, err := s.Dynamo.UpdateItem(ctx, models.NotificationsTable,
		"SET #read = :read",
		Key("notificationId", notificationID),
		map[string]types.AttributeValue{":read": BoolAttr(true)},
		map[string]string{"#read": "read"})
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}

	var updated models.Notification
	if err := attributevalue.UnmarshalMap(attrs, &updated); err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to unmarshal notification: %w", err))
	}
	return &updated, nil
}

// Delete removes the caller's own notification. Deleting a notification that
// no longer exists is an idempotent success; deleting someone else's is
// always Forbidden.
func (s *NotificationService) Delete(ctx context.Context, actorID, notificationID string) error {
	existing, err := s.getNotification(ctx, notificationID)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	if existing.RecipientID != actorID {
		return apperrors.NewForbidden("This notification does not belong to you")
	}

	if err := s.Dynamo.DeleteItem(ctx, models.NotificationsTable, Key("notificationId", notificationID)); err != nil {
		return apperrors.NewInternal(err)
	}
	return nil
}

func (s *NotificationService) getNotification(ctx context.Context, notificationID string) (*models.Notification, error) {
	item, err := s.Dynamo.GetItem(ctx, models.NotificationsTable, Key("notificationId", notificationID))
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	if item == nil {
		return nil, nil
	}

	var n models.Notification
	if err := attributevalue.UnmarshalMap(item, &n); err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to unmarshal notification: %w", err))
	}
	return &n, nil
}
