package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/adammarchelino/portfolio/model"
	"github.com/adammarchelino/portfolio/service/dto"
	"github.com/adammarchelino/portfolio/store"
	"go.uber.org/zap"
)

// notifyingStore posts every appended message to a webhook
type notifyingStore struct {
	store.MessageStore
	webhook    string
	httpClient *http.Client

	pending sync.WaitGroup
}

func newNotifyingStore(messageStore store.MessageStore, webhook string) *notifyingStore {
	return &notifyingStore{
		MessageStore: messageStore,
		webhook:      webhook,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *notifyingStore) Append(ctx context.Context, collection string, msg model.NewMessage) (model.Message, error) {
	record, err := n.MessageStore.Append(ctx, collection, msg)
	if err != nil {
		return record, err
	}

	n.pending.Add(1)
	go func() {
		defer n.pending.Done()
		n.notify(record)
	}()

	return record, nil
}

func (n *notifyingStore) notify(record model.Message) {
	body, err := json.Marshal(dto.FromMessage(record))
	if err != nil {
		zap.L().Error("Error encoding message for web hook", zap.Error(err))
		return
	}

	req, err := http.NewRequest("POST", n.webhook, bytes.NewBuffer(body))
	if err != nil {
		zap.L().Error("Error calling web hook", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		zap.L().Error("Error calling web hook", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if !(resp.StatusCode >= 200 && resp.StatusCode <= 299) {
		zap.L().Warn("Webhook returned unexpected status", zap.String("status", resp.Status))
	}
}
