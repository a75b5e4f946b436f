package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testSecret = []byte("session-test-secret")

func resolveActor(t *testing.T, authorization string) uuid.UUID {
	t.Helper()

	var got uuid.UUID
	handler := Middleware(testSecret, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ActorID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/posts", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestMiddleware_ValidToken(t *testing.T) {
	userID := uuid.New()
	token, err := Issue(testSecret, userID, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, userID, resolveActor(t, "Bearer "+token))
}

func TestMiddleware_NoHeaderIsAnonymous(t *testing.T) {
	assert.Equal(t, uuid.Nil, resolveActor(t, ""))
}

func TestMiddleware_GarbageTokenIsAnonymous(t *testing.T) {
	assert.Equal(t, uuid.Nil, resolveActor(t, "Bearer not.a.token"))
}

func TestMiddleware_WrongSecretIsAnonymous(t *testing.T) {
	token, err := Issue([]byte("some-other-secret"), uuid.New(), time.Hour)
	require.NoError(t, err)

	assert.Equal(t, uuid.Nil, resolveActor(t, "Bearer "+token))
}

func TestMiddleware_ExpiredTokenIsAnonymous(t *testing.T) {
	token, err := Issue(testSecret, uuid.New(), -time.Minute)
	require.NoError(t, err)

	assert.Equal(t, uuid.Nil, resolveActor(t, "Bearer "+token))
}

func TestActorID_EmptyContext(t *testing.T) {
	assert.Equal(t, uuid.Nil, ActorID(t.Context()))
}
