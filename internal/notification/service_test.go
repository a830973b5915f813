package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nordlayer/printing-platform/internal/config"
	"github.com/nordlayer/printing-platform/pkg/models"
)

func TestTelegramDelivery(t *testing.T) {
	received := make(chan telegramMessage, 4)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg telegramMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		received <- msg
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	svc := NewService(zap.NewNop(), config.NotifyConfig{
		TelegramWebhookURL:   ts.URL,
		TelegramAdminChatIDs: []int64{111, 222},
	})

	order := &models.Order{
		ID:              uuid.New(),
		CustomerName:    "Bob",
		CustomerContact: "bob@example.com",
		Source:          "web",
		Service:         &models.Service{Name: "FDM Printing"},
	}
	svc.OrderCreated(context.Background(), order)

	var messages []telegramMessage
	for i := 0; i < 2; i++ {
		select {
		case msg := <-received:
			messages = append(messages, msg)
		case <-time.After(5 * time.Second):
			t.Fatal("webhook was not called for every chat")
		}
	}

	chatIDs := []int64{messages[0].ChatID, messages[1].ChatID}
	assert.ElementsMatch(t, []int64{111, 222}, chatIDs)
	assert.Contains(t, messages[0].Text, "Bob")
	assert.Contains(t, messages[0].Text, "FDM Printing")
}

func TestStatusChangeMessage(t *testing.T) {
	received := make(chan telegramMessage, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg telegramMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		received <- msg
	}))
	defer ts.Close()

	svc := NewService(zap.NewNop(), config.NotifyConfig{
		TelegramWebhookURL:   ts.URL,
		TelegramAdminChatIDs: []int64{111},
	})

	order := &models.Order{ID: uuid.New(), CustomerName: "Bob", Status: "confirmed"}
	svc.OrderStatusChanged(context.Background(), order, "new")

	select {
	case msg := <-received:
		assert.Contains(t, msg.Text, "new -> confirmed")
	case <-time.After(5 * time.Second):
		t.Fatal("webhook was not called")
	}
}

func TestDisabledChannelsStayQuiet(t *testing.T) {
	called := make(chan struct{}, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called <- struct{}{}
	}))
	defer ts.Close()

	// No webhook URL configured, so the server must never be hit.
	svc := NewService(zap.NewNop(), config.NotifyConfig{})
	svc.ContactSubmitted(context.Background(), &models.ContactRequest{
		ID: uuid.New(), Name: "Bob", Email: "bob@example.com",
	})

	select {
	case <-called:
		t.Fatal("notification sent despite empty config")
	case <-time.After(200 * time.Millisecond):
	}
}
