package services

import (
	"context"
	"errors"
	"testing"

	"linkup_server/apperrors"
	"linkup_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPostService(dynamo *mockDynamo, images ImageStore, broadcaster *fakeBroadcaster) *PostService {
	logger := zap.NewNop()
	return &PostService{
		Dynamo:        dynamo,
		Images:        images,
		Notifications: &NotificationService{Dynamo: dynamo, Broadcaster: broadcaster, Logger: logger},
		Logger:        logger,
	}
}

func TestCreatePost_RequiresContentOrImage(t *testing.T) {
	dynamo := new(mockDynamo)
	svc := newPostService(dynamo, nil, nil)

	_, err := svc.CreatePost(context.Background(), "user-1", "", "")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidRequest))
	dynamo.AssertNotCalled(t, "PutItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePost_ImageUploadFailure(t *testing.T) {
	dynamo := new(mockDynamo)
	images := &fakeImages{uploadErr: errors.New("bucket unavailable")}
	svc := newPostService(dynamo, images, nil)

	_, err := svc.CreatePost(context.Background(), "user-1", "hello", "data:image/png;base64,AAAA")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDependentService))
	dynamo.AssertNotCalled(t, "PutItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePost_WithImage(t *testing.T) {
	dynamo := new(mockDynamo)
	images := &fakeImages{uploadURL: "https://bucket.s3.us-east-1.amazonaws.com/images/abc.png"}
	svc := newPostService(dynamo, images, nil)

	var stored models.Post
	dynamo.On("PutItem", mock.Anything, models.PostsTable, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(2).(models.Post)
		}).
		Return(nil)

	post, err := svc.CreatePost(context.Background(), "user-1", "hello", "data:image/png;base64,AAAA")

	require.NoError(t, err)
	assert.Equal(t, images.uploadURL, post.Image)
	assert.Equal(t, "user-1", stored.AuthorID)
	assert.Equal(t, "hello", stored.Content)
	assert.NotEmpty(t, stored.PostID)
}

func TestDeletePost_NotTheAuthor(t *testing.T) {
	dynamo := new(mockDynamo)
	svc := newPostService(dynamo, nil, nil)

	post := models.Post{PostID: "post-1", AuthorID: "user-2"}
	dynamo.On("GetItem", mock.Anything, models.PostsTable, Key("postId", "post-1")).
		Return(mustItem(t, post), nil)

	err := svc.DeletePost(context.Background(), "user-1", "post-1")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
	dynamo.AssertNotCalled(t, "DeleteItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeletePost_CleansUpImage(t *testing.T) {
	dynamo := new(mockDynamo)
	images := &fakeImages{}
	svc := newPostService(dynamo, images, nil)

	post := models.Post{PostID: "post-1", AuthorID: "user-1", Image: "https://bucket.s3.us-east-1.amazonaws.com/images/abc.png"}
	dynamo.On("GetItem", mock.Anything, models.PostsTable, Key("postId", "post-1")).
		Return(mustItem(t, post), nil)
	dynamo.On("DeleteItem", mock.Anything, models.PostsTable, Key("postId", "post-1")).
		Return(nil)

	err := svc.DeletePost(context.Background(), "user-1", "post-1")

	require.NoError(t, err)
	assert.Equal(t, []string{post.Image}, images.deleted)
}

func TestToggleLike_AddsAndNotifies(t *testing.T) {
	dynamo := new(mockDynamo)
	broadcaster := &fakeBroadcaster{}
	svc := newPostService(dynamo, nil, broadcaster)

	liked := models.Post{PostID: "post-1", AuthorID: "user-2", Likes: []string{"user-1"}}
	dynamo.On("ConditionalUpdateItem", mock.Anything, models.PostsTable,
		"ADD likes :actorSet",
		"attribute_exists(postId) AND NOT contains(likes, :actorId)",
		Key("postId", "post-1"), mock.Anything, mock.Anything).
		Return(mustItem(t, liked), nil)
	dynamo.On("PutItem", mock.Anything, models.NotificationsTable, mock.Anything).
		Return(nil)

	post, added, err := svc.ToggleLike(context.Background(), "user-1", "post-1")

	require.NoError(t, err)
	assert.True(t, added)
	assert.Contains(t, post.Likes, "user-1")
	require.Len(t, broadcaster.pushed, 1)
	assert.Equal(t, "user-2", broadcaster.pushed[0].RecipientID)
	assert.Equal(t, models.NotificationTypeLike, broadcaster.pushed[0].Type)
}

func TestToggleLike_OwnPostDoesNotNotify(t *testing.T) {
	dynamo := new(mockDynamo)
	broadcaster := &fakeBroadcaster{}
	svc := newPostService(dynamo, nil, broadcaster)

	liked := models.Post{PostID: "post-1", AuthorID: "user-1", Likes: []string{"user-1"}}
	dynamo.On("ConditionalUpdateItem", mock.Anything, models.PostsTable,
		"ADD likes :actorSet",
		"attribute_exists(postId) AND NOT contains(likes, :actorId)",
		Key("postId", "post-1"), mock.Anything, mock.Anything).
		Return(mustItem(t, liked), nil)

	_, added, err := svc.ToggleLike(context.Background(), "user-1", "post-1")

	require.NoError(t, err)
	assert.True(t, added)
	dynamo.AssertNotCalled(t, "PutItem", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, broadcaster.pushed)
}

func TestToggleLike_RemovesWithoutNotifying(t *testing.T) {
	dynamo := new(mockDynamo)
	broadcaster := &fakeBroadcaster{}
	svc := newPostService(dynamo, nil, broadcaster)

	existing := models.Post{PostID: "post-1", AuthorID: "user-2", Likes: []string{"user-1"}}
	unliked := models.Post{PostID: "post-1", AuthorID: "user-2"}

	dynamo.On("ConditionalUpdateItem", mock.Anything, models.PostsTable,
		"ADD likes :actorSet",
		"attribute_exists(postId) AND NOT contains(likes, :actorId)",
		Key("postId", "post-1"), mock.Anything, mock.Anything).
		Return(nil, conditionalFailure())
	dynamo.On("GetItem", mock.Anything, models.PostsTable, Key("postId", "post-1")).
		Return(mustItem(t, existing), nil)
	dynamo.On("ConditionalUpdateItem", mock.Anything, models.PostsTable,
		"DELETE likes :actorSet",
		"attribute_exists(postId)",
		Key("postId", "post-1"), mock.Anything, mock.Anything).
		Return(mustItem(t, unliked), nil)

	post, added, err := svc.ToggleLike(context.Background(), "user-1", "post-1")

	require.NoError(t, err)
	assert.False(t, added)
	assert.NotContains(t, post.Likes, "user-1")
	assert.Empty(t, broadcaster.pushed)
}

func TestToggleLike_PostMissing(t *testing.T) {
	dynamo := new(mockDynamo)
	svc := newPostService(dynamo, nil, nil)

	dynamo.On("ConditionalUpdateItem", mock.Anything, models.PostsTable,
		"ADD likes :actorSet",
		"attribute_exists(postId) AND NOT contains(likes, :actorId)",
		Key("postId", "post-1"), mock.Anything, mock.Anything).
		Return(nil, conditionalFailure())
	dynamo.On("GetItem", mock.Anything, models.PostsTable, Key("postId", "post-1")).
		Return(nil, nil)

	_, _, err := svc.ToggleLike(context.Background(), "user-1", "post-1")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestCreateComment_RequiresContent(t *testing.T) {
	dynamo := new(mockDynamo)
	svc := newPostService(dynamo, nil, nil)

	_, err := svc.CreateComment(context.Background(), "user-1", "post-1", "")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidRequest))
}

func TestCreateComment_NotifiesAuthor(t *testing.T) {
	dynamo := new(mockDynamo)
	broadcaster := &fakeBroadcaster{}
	svc := newPostService(dynamo, nil, broadcaster)

	updated := models.Post{PostID: "post-1", AuthorID: "user-2"}
	dynamo.On("ConditionalUpdateItem", mock.Anything, models.PostsTable,
		"SET comments = list_append(if_not_exists(comments, :empty), :comment)",
		"attribute_exists(postId)",
		Key("postId", "post-1"), mock.Anything, mock.Anything).
		Return(mustItem(t, updated), nil)
	dynamo.On("PutItem", mock.Anything, models.NotificationsTable, mock.Anything).
		Return(nil)

	comment, err := svc.CreateComment(context.Background(), "user-1", "post-1", "nice one")

	require.NoError(t, err)
	assert.Equal(t, "user-1", comment.UserID)
	assert.Equal(t, "nice one", comment.Content)
	assert.NotEmpty(t, comment.CommentID)

	require.Len(t, broadcaster.pushed, 1)
	assert.Equal(t, models.NotificationTypeComment, broadcaster.pushed[0].Type)
	assert.Equal(t, "user-2", broadcaster.pushed[0].RecipientID)
}

func TestCreateComment_PostMissing(t *testing.T) {
	dynamo := new(mockDynamo)
	svc := newPostService(dynamo, nil, nil)

	dynamo.On("ConditionalUpdateItem", mock.Anything, models.PostsTable,
		"SET comments = list_append(if_not_exists(comments, :empty), :comment)",
		"attribute_exists(postId)",
		Key("postId", "post-1"), mock.Anything, mock.Anything).
		Return(nil, conditionalFailure())

	_, err := svc.CreateComment(context.Background(), "user-1", "post-1", "nice one")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
