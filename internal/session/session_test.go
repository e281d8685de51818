package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenpledge/internal/client"
)

func stubAPI(t *testing.T, handler http.HandlerFunc) *client.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return client.New(srv.URL)
}

func TestAuthenticateSuccess(t *testing.T) {
	api := stubAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer hunter2", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count":2,"pledges":[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}]}`))
	})

	gate := NewGate(api)
	assert.Equal(t, Anonymous, gate.State())

	sess, err := gate.Authenticate(context.Background(), "hunter2")
	require.NoError(t, err)
	assert.Equal(t, Authorized, gate.State())
	require.Len(t, sess.WorkingSet, 2)
	assert.Equal(t, "Alice", sess.WorkingSet[0].Name)
}

func TestAuthenticateRejectedCredential(t *testing.T) {
	api := stubAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Unauthorized"}`))
	})

	gate := NewGate(api)
	sess, err := gate.Authenticate(context.Background(), "wrong")

	assert.Nil(t, sess)
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, Anonymous, gate.State())
}

func TestAuthenticateTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	api := client.New(srv.URL)
	srv.Close() // connection refused from here on

	gate := NewGate(api)
	sess, err := gate.Authenticate(context.Background(), "hunter2")

	assert.Nil(t, sess)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, Anonymous, gate.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "anonymous", Anonymous.String())
	assert.Equal(t, "authenticating", Authenticating.String())
	assert.Equal(t, "authorized", Authorized.String())
}
