package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/adammarchelino/portfolio/contact"
	"github.com/adammarchelino/portfolio/model"
	"github.com/adammarchelino/portfolio/store"
	"github.com/stretchr/testify/require"
)

func TestFromState(t *testing.T) {
	ts := time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)
	state := contact.State{
		Fields:      contact.Fields{Name: "Rina"},
		Status:      contact.Status{Text: contact.StatusSent, Kind: contact.KindSuccess},
		Identity:    "secret-uid",
		FeedVisible: true,
		Messages: store.Snapshot{
			{Id: "m2", Name: "Budi", Email: "budi@example.com", Message: "halo", Timestamp: ts, UserId: "secret-uid"},
			{Id: "m1", Name: "Sari", Email: "sari@example.com", Message: "pending"},
		},
	}

	b, err := json.Marshal(FromState(state))
	require.NoError(t, err)

	require.JSONEq(t, `{
		"name": "Rina", "email": "", "message": "",
		"status": "Pesan berhasil terkirim!", "status_kind": "success",
		"in_flight": false, "feed_visible": true,
		"messages": [
			{"id": "m2", "name": "Budi", "email": "budi@example.com", "message": "halo", "timestamp": "2025-07-01T09:30:00Z"},
			{"id": "m1", "name": "Sari", "email": "sari@example.com", "message": "pending", "timestamp": null}
		]
	}`, string(b))
}

func TestFromStateEmptyFeed(t *testing.T) {
	b, err := json.Marshal(FromState(contact.State{}))
	require.NoError(t, err)

	require.Contains(t, string(b), `"messages":[]`)
}

func TestFromMessage(t *testing.T) {
	require.Nil(t, FromMessage(model.Message{Id: "x"}).Timestamp)
}
