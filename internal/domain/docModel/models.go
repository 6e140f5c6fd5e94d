package docModel

import (
	"path/filepath"
	"strings"
	"time"
)

type DocType string

var PDF DocType = "PDF"
var TXT DocType = "TXT"
var ERR DocType = "ERROR"

const (
	MimeTextPlain = "text/plain"
	MimePDF       = "application/pdf"
)

// Document is one ingested upload or paste. Immutable once built.
type Document struct {
	Name       string    `json:"name"`
	SizeBytes  int64     `json:"size_bytes"`
	Content    string    `json:"content"`
	MimeHint   string    `json:"mime_hint"`
	Type       DocType   `json:"type"`
	Strategy   string    `json:"strategy,omitempty"`
	IngestedAt time.Time `json:"ingested_at"`
}

func (d Document) IsPDF() bool {
	return d.Type == PDF
}

// DocumentInfo is a Document without its content, for job payloads and listings.
type DocumentInfo struct {
	Name          string  `json:"name"`
	SizeBytes     int64   `json:"size_bytes"`
	MimeHint      string  `json:"mime_hint"`
	Type          DocType `json:"type"`
	Strategy      string  `json:"strategy,omitempty"`
	ContentLength int     `json:"content_length"`
}

func (d Document) Info() DocumentInfo {
	return DocumentInfo{
		Name:          d.Name,
		SizeBytes:     d.SizeBytes,
		MimeHint:      d.MimeHint,
		Type:          d.Type,
		Strategy:      d.Strategy,
		ContentLength: len(d.Content),
	}
}

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type ChatMessage struct {
	Sender Sender    `json:"sender"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

// GetDocType classifies an upload by declared mime type or extension.
// Text wins when both could match, anything else is ERR.
func GetDocType(name string, mimeHint string) DocType {
	ext := strings.ToLower(filepath.Ext(name))
	mimeHint = strings.ToLower(strings.TrimSpace(mimeHint))
	switch {
	case mimeHint == MimeTextPlain || ext == ".txt":
		return TXT
	case mimeHint == MimePDF || ext == ".pdf":
		return PDF
	default:
		return ERR
	}
}

func IsSupported(name string, mimeHint string) bool {
	return GetDocType(name, mimeHint) != ERR
}
