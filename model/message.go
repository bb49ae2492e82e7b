package model

import "time"

// Message is a contact message as kept in a collection
type Message struct {
	Id        string `storm:"id"`
	Name      string
	Email     string
	Message   string
	Timestamp time.Time `storm:"index"`
	UserId    string
}

// Pending reports whether the store has not assigned a timestamp yet
func (m Message) Pending() bool {
	return m.Timestamp.IsZero()
}

// NewMessage is the payload of an append; id and timestamp are assigned by the store
type NewMessage struct {
	Name    string `validate:"required"`
	Email   string `validate:"required,email"`
	Message string `validate:"required"`
	UserId  string
}
