package services

import (
	"context"
	"fmt"
	"time"

	"linkup_server/apperrors"
	"linkup_server/models"
	"linkup_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostService is the content store: posts, atomic like toggling and comment
// appending. Likes never go through read-modify-write of the whole set; the
// mutation is expressed as a conditional ADD or DELETE so concurrent
// toggles cannot duplicate a user or drop someone else's like.
type PostService struct {
	Dynamo        DynamoAPI
	Images        ImageStore
	Notifications *NotificationService
	Logger        *zap.Logger
}

// CreatePost stores a new post. An inline image (data URI) is uploaded
// first; if the upload fails the post is not created, since content cannot
// point at an image that was never stored.
func (s *PostService) CreatePost(ctx context.Context, actorID, content, image string) (*models.Post, error) {
	if content == "" && image == "" {
		return nil, apperrors.NewInvalidRequest("A post needs content or an image")
	}

	post := models.Post{
		PostID:    uuid.New().String(),
		AuthorID:  actorID,
		Content:   content,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if image != "" {
		if s.Images == nil {
			return nil, apperrors.NewDependentService("Image storage is unavailable")
		}
		url, err := s.Images.UploadImage(ctx, image)
		if err != nil {
			return nil, apperrors.NewDependentService("Failed to upload image").WithCause(err)
		}
		post.Image = url
	}

	if err := s.Dynamo.PutItem(ctx, models.PostsTable, post); err != nil {
		return nil, apperrors.NewInternal(err)
	}

	s.Logger.Info("post created", zap.String("postId", post.PostID), zap.String("authorId", actorID))
	return &post, nil
}

// GetPost fetches a post by id, NotFound if absent.
func (s *PostService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	item, err := s.Dynamo.GetItem(ctx, models.PostsTable, Key("postId", postID))
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	if item == nil {
		return nil, apperrors.NewNotFound("Post")
	}

	var post models.Post
	if err := attributevalue.UnmarshalMap(item, &post); err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to unmarshal post: %w", err))
	}
	return &post, nil
}

// DeletePost removes the actor's own post. Image cleanup in the object store
// is best-effort: the post is gone either way.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID string) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actorID {
		return apperrors.NewForbidden("You're not authorized to delete this post")
	}

	if err := s.Dynamo.DeleteItem(ctx, models.PostsTable, Key("postId", postID)); err != nil {
		return apperrors.NewInternal(err)
	}

	if post.Image != "" && s.Images != nil {
		if err := s.Images.DeleteImage(ctx, post.Image); err != nil {
			s.Logger.Warn("failed to delete post image",
				zap.String("postId", postID), zap.Error(err))
		}
	}
	return nil
}

// ToggleLike adds the actor to the post's likes set, or removes them if
// already present. Only the off→on transition fires fan-out; toggling off
// neither creates nor deletes a notification. Returns the post state after
// the toggle and whether the like was added.
func (s *PostService) ToggleLike(ctx context.Context, actorID, postID string) (*models.Post, bool, error) {
	attrs, err := s.Dynamo.ConditionalUpdateItem(ctx, models.PostsTable,
		"ADD likes :actorSet",
		"attribute_exists(postId) AND NOT contains(likes, :actorId)",
		Key("postId", postID),
		map[string]types.AttributeValue{
			":actorSet": StringSetAttr(actorID),
			":actorId":  StringAttr(actorID),
		},
		nil)
	if err == nil {
		post, unmarshalErr := unmarshalPost(attrs)
		if unmarshalErr != nil {
			return nil, false, unmarshalErr
		}

		ownerID := utils.ExtractString(attrs, "authorId")
		if ownerID != actorID {
			s.Notifications.NotifyContentLiked(ctx, actorID, ownerID, postID)
		}
		return post, true, nil
	}
	if !IsConditionalCheckFailed(err) {
		return nil, false, apperrors.NewInternal(err)
	}

	// Either the post is gone or the actor already liked it: a read
	// distinguishes the two, then the un-like is its own atomic DELETE.
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, false, err
	}

	attrs, err = s.Dynamo.ConditionalUpdateItem(ctx, models.PostsTable,
		"DELETE likes :actorSet",
		"attribute_exists(postId)",
		Key("postId", postID),
		map[string]types.AttributeValue{":actorSet": StringSetAttr(actorID)},
		nil)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return nil, false, apperrors.NewNotFound("Post")
		}
		return nil, false, apperrors.NewInternal(err)
	}

	post, unmarshalErr := unmarshalPost(attrs)
	if unmarshalErr != nil {
		return nil, false, unmarshalErr
	}
	return post, false, nil
}

// CreateComment appends a comment to the post's comment list and fans out a
// notification to the author. Every comment fires, not just the first.
func (s *PostService) CreateComment(ctx context.Context, actorID, postID, content string) (*models.Comment, error) {
	if content == "" {
		return nil, apperrors.NewInvalidRequest("Comment content is required")
	}

	comment := models.Comment{
		CommentID: uuid.New().String(),
		UserID:    actorID,
		Content:   content,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	commentList, err := attributevalue.MarshalList([]models.Comment{comment})
	if err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to marshal comment: %w", err))
	}

	attrs, err := s.Dynamo.ConditionalUpdateItem(ctx, models.PostsTable,
		"SET comments = list_append(if_not_exists(comments, :empty), :comment)",
		"attribute_exists(postId)",
		Key("postId", postID),
		map[string]types.AttributeValue{
			":comment": &types.AttributeValueMemberL{Value: commentList},
			":empty":   &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
		},
		nil)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return nil, apperrors.NewNotFound("Post")
		}
		return nil, apperrors.NewInternal(err)
	}

	ownerID := utils.ExtractString(attrs, "authorId")
	if ownerID != actorID {
		s.Notifications.NotifyContentCommented(ctx, actorID, ownerID, postID)
	}
	return &comment, nil
}

func unmarshalPost(attrs map[string]types.AttributeValue) (*models.Post, error) {
	var post models.Post
	if err := attributevalue.UnmarshalMap(attrs, &post); err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to unmarshal post: %w", err))
	}
	return &post, nil
}
