package collector

import (
	"strings"
	"time"
)

// MediaKind identifies the attachment type of an incoming message.
type MediaKind string

const (
	KindPhoto     MediaKind = "photo"
	KindDocument  MediaKind = "document"
	KindVideo     MediaKind = "video"
	KindAudio     MediaKind = "audio"
	KindVoice     MediaKind = "voice"
	KindSticker   MediaKind = "sticker"
	KindAnimation MediaKind = "animation"
)

// Media describes a message attachment in transport-neutral terms. FileName
// is the sender's suggested name and may be empty; FileID is the opaque
// reference handed to the Downloader.
type Media struct {
	Kind     MediaKind
	MIME     string
	FileName string
	FileID   string
	FileSize int64
}

// Qualifies reports whether the attachment should be collected into a batch.
// Photos always qualify; documents qualify when they carry an image MIME type
// and image documents are allowed. Qualification inspects metadata only, the
// file contents are never examined.
func (m *Media) Qualifies(allowImageDocuments bool) bool {
	if m == nil {
		return false
	}
	switch m.Kind {
	case KindPhoto:
		return true
	case KindDocument:
		return allowImageDocuments && strings.HasPrefix(m.MIME, "image/")
	default:
		return false
	}
}

// Event is one chat message as seen by the collector. Text holds the message
// body or the media caption, already trimmed. Media is nil for text-only
// messages. The collector consumes only these fields and never sees
// transport types.
type Event struct {
	ChatID    int64
	MessageID int64
	Text      string
	Time      time.Time
	Media     *Media
}
