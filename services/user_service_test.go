package services

import (
	"context"
	"errors"
	"testing"

	"linkup_server/apperrors"
	"linkup_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserService(dynamo *mockDynamo, images ImageStore) *UserService {
	return &UserService{Dynamo: dynamo, Images: images, Logger: zap.NewNop()}
}

func TestGetProfile_Missing(t *testing.T) {
	dynamo := new(mockDynamo)
	svc := newUserService(dynamo, nil)

	dynamo.On("GetItem", mock.Anything, models.UserProfilesTable, Key("userId", "user-1")).
		Return(nil, nil)

	profile, err := svc.GetProfile(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestRequireProfile_Missing(t *testing.T) {
	dynamo := new(mockDynamo)
	svc := newUserService(dynamo, nil)

	dynamo.On("GetItem", mock.Anything, models.UserProfilesTable, Key("userId", "user-1")).
		Return(nil, nil)

	_, err := svc.RequireProfile(context.Background(), "user-1")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestPublicProfiles_SkipsMissingUsers(t *testing.T) {
	dynamo := new(mockDynamo)
	svc := newUserService(dynamo, nil)

	dynamo.On("GetItem", mock.Anything, models.UserProfilesTable, Key("userId", "user-1")).
		Return(mustItem(t, models.UserProfile{UserID: "user-1", Name: "Ada"}), nil)
	dynamo.On("GetItem", mock.Anything, models.UserProfilesTable, Key("userId", "user-2")).
		Return(nil, nil)

	profiles, err := svc.PublicProfiles(context.Background(), []string{"user-1", "user-2"})

	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Ada", profiles[0].Name)
}

func TestUpdateProfile_RejectsEmptyUpdate(t *testing.T) {
	dynamo := new(mockDynamo)
	svc := newUserService(dynamo, nil)

	_, err := svc.UpdateProfile(context.Background(), "user-1", map[string]interface{}{
		"email":       "new@example.com", // not updatable
		"connections": []string{"user-9"},
	})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidRequest))
	dynamo.AssertNotCalled(t, "ConditionalUpdateItem",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProfile_IgnoresNonWhitelistedFields(t *testing.T) {
	dynamo := new(mockDynamo)
	svc := newUserService(dynamo, nil)

	updated := models.UserProfile{UserID: "user-1", Headline: "Engineer"}
	var capturedExpression string
	dynamo.On("ConditionalUpdateItem", mock.Anything, models.UserProfilesTable,
		mock.Anything, "attribute_exists(userId)",
		Key("userId", "user-1"), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedExpression = args.Get(2).(string)
		}).
		Return(mustItem(t, updated), nil)

	profile, err := svc.UpdateProfile(context.Background(), "user-1", map[string]interface{}{
		"headline":    "Engineer",
		"connections": []string{"user-9"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Engineer", profile.Headline)
	assert.Equal(t, "SET #headline = :headline", capturedExpression)
	assert.NotContains(t, capturedExpression, "connections")
}

func TestUpdateProfile_UploadsInlineImage(t *testing.T) {
	dynamo := new(mockDynamo)
	images := &fakeImages{uploadURL: "https://bucket.s3.us-east-1.amazonaws.com/images/pic.png"}
	svc := newUserService(dynamo, images)

	updated := models.UserProfile{UserID: "user-1", ProfilePicture: images.uploadURL}
	var capturedValues map[string]types.AttributeValue
	dynamo.On("ConditionalUpdateItem", mock.Anything, models.UserProfilesTable,
		mock.Anything, "attribute_exists(userId)",
		Key("userId", "user-1"), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedValues = args.Get(5).(map[string]types.AttributeValue)
		}).
		Return(mustItem(t, updated), nil)

	_, err := svc.UpdateProfile(context.Background(), "user-1", map[string]interface{}{
		"profilePicture": "data:image/png;base64,AAAA",
	})

	require.NoError(t, err)
	assert.Equal(t, StringAttr(images.uploadURL), capturedValues[":profilePicture"])
}

func TestUpdateProfile_ImageUploadFailureAborts(t *testing.T) {
	dynamo := new(mockDynamo)
	images := &fakeImages{uploadErr: errors.New("bucket unavailable")}
	svc := newUserService(dynamo, images)

	_, err := svc.UpdateProfile(context.Background(), "user-1", map[string]interface{}{
		"profilePicture": "data:image/png;base64,AAAA",
	})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDependentService))
	dynamo.AssertNotCalled(t, "ConditionalUpdateItem",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProfile_UserMissing(t *testing.T) {
	dynamo := new(mockDynamo)
	svc := newUserService(dynamo, nil)

	dynamo.On("ConditionalUpdateItem", mock.Anything, models.UserProfilesTable,
		mock.Anything, "attribute_exists(userId)",
		Key("userId", "user-1"), mock.Anything, mock.Anything).
		Return(nil, conditionalFailure())

	_, err := svc.UpdateProfile(context.Background(), "user-1", map[string]interface{}{
		"headline": "Engineer",
	})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
