package models

import "time"

// ContentEntry is one editable block of site content keyed by section.
// RawValue is opaque text; some sections hold JSON (see services.Sections).
// A zero UpdatedAt means the section has never been written.
type ContentEntry struct {
	SectionKey string
	RawValue   string
	UpdatedAt  time.Time
}
