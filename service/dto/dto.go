package dto

import (
	"time"

	"github.com/adammarchelino/portfolio/contact"
	"github.com/adammarchelino/portfolio/model"
	"github.com/samber/lo"
)

type Message struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Message string `json:"message" form:"message"`
}

type StoredMessage struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	// null while the store has not assigned it
	Timestamp *time.Time `json:"timestamp"`
}

type ContactState struct {
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Message     string          `json:"message"`
	Status      string          `json:"status"`
	StatusKind  string          `json:"status_kind,omitempty"`
	InFlight    bool            `json:"in_flight"`
	FeedVisible bool            `json:"feed_visible"`
	Messages    []StoredMessage `json:"messages"`
}

type Session struct {
	Active bool `json:"active"`
}

func FromMessage(msg model.Message) StoredMessage {
	stored := StoredMessage{
		Id:      msg.Id,
		Name:    msg.Name,
		Email:   msg.Email,
		Message: msg.Message,
	}
	if !msg.Pending() {
		ts := msg.Timestamp
		stored.Timestamp = &ts
	}
	return stored
}

func FromState(state contact.State) ContactState {
	return ContactState{
		Name:        state.Name,
		Email:       state.Email,
		Message:     state.Message,
		Status:      state.Status.Text,
		StatusKind:  state.Status.Kind.String(),
		InFlight:    state.InFlight,
		FeedVisible: state.FeedVisible,
		Messages: lo.Map(state.Messages, func(item model.Message, _ int) StoredMessage {
			return FromMessage(item)
		}),
	}
}
