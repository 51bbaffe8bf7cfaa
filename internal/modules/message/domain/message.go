package domain

import "fmt"

// Inbound is a chat message as delivered by a transport
type Inbound struct {
	ChannelID   string
	ChannelName string
	AuthorID    string
	AuthorName  string
	Text        string
	// FromSelf is set when the bot itself sent the message
	FromSelf bool
}

// Field is one titled block of a structured reply
type Field struct {
	Name  string
	Value string
}

// Reply is an outbound message: plain text, or fields when Fields is non-empty
type Reply struct {
	Text   string
	Fields []Field
}

// Textf builds a plain text reply
func Textf(format string, args ...any) Reply {
	return Reply{Text: fmt.Sprintf(format, args...)}
}

// IsStructured reports whether the reply carries fields
func (r Reply) IsStructured() bool {
	return len(r.Fields) > 0
}

// IsEmpty reports whether there is nothing to send
func (r Reply) IsEmpty() bool {
	return r.Text == "" && len(r.Fields) == 0
}
