package domain

import (
	"strings"
	"time"
)

// AttachmentImage is the attachment type GroupMe uses for pictures.
const AttachmentImage = "image"

// Member is a participant of a group chat.
type Member struct {
	UserID   string
	Nickname string
}

// Group is a GroupMe group chat.
type Group struct {
	ID          string
	Name        string
	MemberCount int
	Members     []Member
}

// Attachment is a single message attachment. Only images are acted upon.
type Attachment struct {
	Type string
	URL  string
}

// Message is a single chat message.
type Message struct {
	ID          string
	GroupID     string
	UserID      string
	Name        string
	Text        string
	CreatedAt   time.Time
	Attachments []Attachment
}

// Images returns the image attachments of the message.
func (m Message) Images() []Attachment {
	var out []Attachment
	for _, a := range m.Attachments {
		if a.Type == AttachmentImage && a.URL != "" {
			out = append(out, a)
		}
	}
	return out
}

// GroupDirName turns a group name into a directory component.
// Spaces become underscores; path separators are not allowed through.
func GroupDirName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "group"
	}
	r := strings.NewReplacer(" ", "_", "/", "_", "\\", "_")
	out := r.Replace(name)
	if out == "." || out == ".." {
		return "group"
	}
	return out
}

// ImageIDFromURL returns the last path segment of an image URL,
// which GroupMe uses as a stable identifier.
func ImageIDFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.TrimRight(raw, "/")
	if raw == "" {
		return ""
	}
	if i := strings.LastIndex(raw, "/"); i >= 0 {
		return raw[i+1:]
	}
	return raw
}
