package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenpledge/internal/dto"
	"greenpledge/internal/model"
)

func TestSubmit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/submit", r.URL.Path)

		var req dto.SubmitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Alice", req.Name)
		assert.Equal(t, model.StringList{"Investment"}, req.Interested)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"Form processed","created":true,"email_sent":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Submit(context.Background(), dto.SubmitRequest{
		Name:       "Alice",
		Email:      "a@x.com",
		Phone:      "123",
		Interested: model.StringList{"Investment"},
	})
	require.NoError(t, err)
	assert.True(t, resp.Created)
	assert.True(t, resp.EmailSent)
}

func TestSubmitServerErrorMessage(t *testing.T) {
	t.Run("error field", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"Field 'phone' is incorrect"}`))
		}))
		defer srv.Close()

		_, err := New(srv.URL).Submit(context.Background(), dto.SubmitRequest{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Field 'phone' is incorrect")
	})

	t.Run("message field fallback", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"boom"}`))
		}))
		defer srv.Close()

		_, err := New(srv.URL).Submit(context.Background(), dto.SubmitRequest{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})
}

func TestPledges(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/pledges", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count":1,"pledges":[{"name":"Alice","photo_url":"http://x/a.png"}]}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL).Pledges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Pledges, 1)
	assert.Equal(t, "Alice", resp.Pledges[0].DisplayName)
}

func TestAdminStatsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Unauthorized"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).AdminStats(context.Background(), "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
