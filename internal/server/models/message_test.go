package models

import "testing"

func TestMessageStatus_Valid(t *testing.T) {
	for _, s := range []MessageStatus{MessageStatusNew, MessageStatusRead, MessageStatusReplied} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []MessageStatus{"", "archived", "NEW"} {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}
