package services

import (
	"context"
	"fmt"
	"strings"

	"linkup_server/apperrors"
	"linkup_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// UserService is the identity store: profile reads and whitelisted profile
// updates. Connection-set mutations happen inside ConnectionService
// transactions so they stay symmetric.
type UserService struct {
	Dynamo DynamoAPI
	Images ImageStore
	Logger *zap.Logger
}

// profileUpdateWhitelist are the only fields a profile update may touch.
var profileUpdateWhitelist = []string{
	"name",
	"username",
	"headline",
	"about",
	"location",
	"profilePicture",
	"bannerImg",
	"skills",
}

// GetProfile fetches a profile by id. A missing profile is (nil, nil).
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, Key("userId", userID))
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	if item == nil {
		return nil, nil
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to unmarshal profile: %w", err))
	}
	return &profile, nil
}

// RequireProfile fetches a profile by id and fails with NotFound if absent.
func (s *UserService) RequireProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperrors.NewNotFound("User")
	}
	return profile, nil
}

// GetByUsername looks a profile up through the username GSI.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.UserProfilesTable, models.UsernameIndex,
		"username = :username",
		map[string]types.AttributeValue{":username": StringAttr(username)},
		nil, 1, false)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(items[0], &profile); err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to unmarshal profile: %w", err))
	}
	return &profile, nil
}

// PublicProfiles resolves a set of user ids to their public subset. Missing
// users are skipped rather than failing the whole list.
func (s *UserService) PublicProfiles(ctx context.Context, userIDs []string) ([]models.PublicProfile, error) {
	profiles := make([]models.PublicProfile, 0, len(userIDs))
	for _, id := range userIDs {
		profile, err := s.GetProfile(ctx, id)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			s.Logger.Warn("skipping missing profile", zap.String("userId", id))
			continue
		}
		profiles = append(profiles, profile.Public())
	}
	return profiles, nil
}

// UpdateProfile applies a whitelisted update to the actor's own profile.
// Inline image payloads (data URIs) are uploaded to the object store first;
// an upload failure aborts the whole update since the profile cannot point
// at an image that was never stored.
func (s *UserService) UpdateProfile(ctx context.Context, actorID string, updates map[string]interface{}) (*models.UserProfile, error) {
	setClauses := []string{}
	expressionValues := map[string]types.AttributeValue{}
	expressionNames := map[string]string{}

	for _, field := range profileUpdateWhitelist {
		value, ok := updates[field]
		if !ok {
			continue
		}

		if field == "profilePicture" || field == "bannerImg" {
			raw, isString := value.(string)
			if isString && strings.HasPrefix(raw, "data:") {
				if s.Images == nil {
					return nil, apperrors.NewDependentService("Image storage is unavailable")
				}
				url, err := s.Images.UploadImage(ctx, raw)
				if err != nil {
					return nil, apperrors.NewDependentService("Failed to upload image").WithCause(err)
				}
				value = url
			}
		}

		attr, err := attributevalue.Marshal(value)
		if err != nil {
			return nil, apperrors.NewInvalidRequest(fmt.Sprintf("Invalid value for field %q", field))
		}
		placeholder := ":" + field
		namePlaceholder := "#" + field
		setClauses = append(setClauses, fmt.Sprintf("%s = %s", namePlaceholder, placeholder))
		expressionValues[placeholder] = attr
		expressionNames[namePlaceholder] = field
	}

	if len(setClauses) == 0 {
		return nil, apperrors.NewInvalidRequest("No updatable fields provided")
	}

	updateExpression := "SET " + strings.Join(setClauses, ", ")
	attrs, err := s.Dynamo.ConditionalUpdateItem(ctx, models.UserProfilesTable,
		updateExpression, "attribute_exists(userId)",
		Key("userId", actorID), expressionValues, expressionNames)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return nil, apperrors.NewNotFound("User")
		}
		return nil, apperrors.NewInternal(err)
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(attrs, &profile); err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to unmarshal updated profile: %w", err))
	}
	return &profile, nil
}
