package models

import "time"

// MessageStatus is the inbox state of a contact message. Any status may be
// set from any other.
type MessageStatus string

const (
	MessageStatusNew     MessageStatus = "new"
	MessageStatusRead    MessageStatus = "read"
	MessageStatusReplied MessageStatus = "replied"
)

// Valid reports whether s is one of the known statuses.
func (s MessageStatus) Valid() bool {
	switch s {
	case MessageStatusNew, MessageStatusRead, MessageStatusReplied:
		return true
	}
	return false
}

// Message is a contact-form submission.
type Message struct {
	ID          int64
	Name        string
	Email       string
	ProjectType string
	Body        string
	Status      MessageStatus
	CreatedAt   time.Time
}
