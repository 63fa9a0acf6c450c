package notify_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbrp/insurance-bot/internal/notify"
)

func TestWebhookSink_PostsJSON(t *testing.T) {
	var received struct {
		Destination notify.Destination `json:"destination"`
		Message     notify.Message     `json:"message"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	sink := notify.NewWebhookSink(server.URL)
	err := sink.Notify(context.Background(),
		notify.Destination{ChannelID: "chan-1"},
		notify.Message{
			Kind:   "invoice_reminder",
			Fields: []notify.Field{{Name: "invoice_id", Value: "RG-2603-AB12"}},
		})
	require.NoError(t, err)

	assert.Equal(t, "chan-1", received.Destination.ChannelID)
	assert.Equal(t, "invoice_reminder", received.Message.Kind)
	require.Len(t, received.Message.Fields, 1)
	assert.Equal(t, "RG-2603-AB12", received.Message.Fields[0].Value)
}

func TestWebhookSink_ErrorStatusFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sink := notify.NewWebhookSink(server.URL)
	err := sink.Notify(context.Background(), notify.Destination{}, notify.Message{Kind: "test"})
	assert.Error(t, err)
}
