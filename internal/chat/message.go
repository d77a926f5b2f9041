// ABOUTME: Message types for the append-only room log.
// ABOUTME: Messages are immutable once appended; the kind tag drives rendering.

package chat

import "time"

// UserSender is the sentinel sender id for messages typed by the human user.
const UserSender = "user"

// UserName is the display name shown for the human user.
const UserName = "You"

// MessageKind tags what a message carries and how it should be rendered.
type MessageKind string

const (
	KindText   MessageKind = "text"
	KindImage  MessageKind = "image"
	KindVideo  MessageKind = "video"
	KindLink   MessageKind = "link"
	KindSystem MessageKind = "system"
)

// LinkMeta is the structured metadata attached to link messages.
type LinkMeta struct {
	Title string
	URL   string
}

// ImagePayload is binary image content attached to a user message.
type ImagePayload struct {
	MIMEType string
	Data     []byte
}

// Message is a single entry in a room's log. Sender is either UserSender or
// the id of an agent belonging to the owning room. MediaRef is set iff the
// kind is image or video; Link is set iff the kind is link.
type Message struct {
	ID         string
	Sender     string
	SenderName string
	Content    string
	Kind       MessageKind
	MediaRef   string
	Link       *LinkMeta
	Image      *ImagePayload // inbound user attachment, forwarded to the director
	CreatedAt  time.Time
}
