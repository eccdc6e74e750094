package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"linkup_server/models"
	"linkup_server/services"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubDynamo serves profile reads for auth tests; everything else is unused.
type stubDynamo struct {
	profiles map[string]models.UserProfile
}

func (s *stubDynamo) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	id := key["userId"].(*types.AttributeValueMemberS).Value
	profile, ok := s.profiles[id]
	if !ok {
		return nil, nil
	}
	item, err := attributevalue.MarshalMap(profile)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *stubDynamo) PutItem(ctx context.Context, tableName string, item interface{}) error {
	return nil
}

func (s *stubDynamo) DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error {
	return nil
}

func (s *stubDynamo) UpdateItem(ctx context.Context, tableName, updateExpression string, key, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string) (map[string]types.AttributeValue, error) {
	return nil, nil
}

func (s *stubDynamo) ConditionalUpdateItem(ctx context.Context, tableName, updateExpression, conditionExpression string, key, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string) (map[string]types.AttributeValue, error) {
	return nil, nil
}

func (s *stubDynamo) QueryItemsWithIndex(ctx context.Context, tableName, indexName, keyConditionExpression string, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string, limit int32, latestFirst bool) ([]map[string]types.AttributeValue, error) {
	return nil, nil
}

func (s *stubDynamo) TransactWriteItems(ctx context.Context, items []types.TransactWriteItem) error {
	return nil
}

const testSecret = "test-secret"

func authHarness(profiles map[string]models.UserProfile) http.Handler {
	users := &services.UserService{Dynamo: &stubDynamo{profiles: profiles}, Logger: zap.NewNop()}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return Authenticate(users, testSecret, zap.NewNop())(inner)
}

func signedToken(t *testing.T, userID, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": userID})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthenticate_NoHeader(t *testing.T) {
	handler := authHarness(nil)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_WrongScheme(t *testing.T) {
	handler := authHarness(nil)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_BadSignature(t *testing.T) {
	handler := authHarness(map[string]models.UserProfile{
		"user-1": {UserID: "user-1"},
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user-1", "wrong-secret"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	handler := authHarness(nil)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user-1", testSecret))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_LoadsActor(t *testing.T) {
	users := &services.UserService{
		Dynamo: &stubDynamo{profiles: map[string]models.UserProfile{
			"user-1": {UserID: "user-1", Name: "Ada"},
		}},
		Logger: zap.NewNop(),
	}

	var seen *models.UserProfile
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ActorFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Authenticate(users, testSecret, zap.NewNop())(inner)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user-1", testSecret))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "Ada", seen.Name)
}
