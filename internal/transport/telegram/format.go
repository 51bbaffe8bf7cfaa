package telegram

import (
	"html"
	"strings"

	messageDomain "github.com/reshetovitsme/termbot/internal/modules/message/domain"
	"github.com/samber/lo"
)

const (
	maxMessageLength = 4096
	ellipsis         = "…"
)

// render turns a reply into one or more HTML messages that fit the Telegram size limit.
// Field names and values are user text and are escaped only.
func render(reply messageDomain.Reply) []string {
	if !reply.IsStructured() {
		text := toHTML(reply.Text)
		if len(text) > maxMessageLength {
			text = escapeWithin(reply.Text, maxMessageLength)
		}
		return []string{text}
	}

	blocks := lo.Map(reply.Fields, func(f messageDomain.Field, _ int) string {
		name := "<b>" + escapeWithin(f.Name, 256) + "</b>\n"
		return name + escapeWithin(f.Value, maxMessageLength-len(name))
	})

	var (
		messages []string
		current  strings.Builder
	)
	for _, block := range blocks {
		if current.Len() > 0 && current.Len()+2+len(block) > maxMessageLength {
			messages = append(messages, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(block)
	}
	if current.Len() > 0 {
		messages = append(messages, current.String())
	}
	return messages
}

// toHTML escapes text and converts the `code`, **bold** and *italic* markers
// used in reply templates. Markers pair left to right and an unpaired marker
// stays literal. Code spans are never parsed further and italics never cross
// a backtick, so the resulting tags always nest.
func toHTML(text string) string {
	var out strings.Builder
	for len(text) > 0 {
		switch {
		case strings.HasPrefix(text, "`"):
			if end := strings.Index(text[1:], "`"); end > 0 {
				out.WriteString("<code>" + html.EscapeString(text[1:1+end]) + "</code>")
				text = text[end+2:]
				continue
			}
		case strings.HasPrefix(text, "**"):
			if end := strings.Index(text[2:], "**"); end > 0 {
				out.WriteString("<b>" + toHTML(text[2:2+end]) + "</b>")
				text = text[end+4:]
				continue
			}
		case strings.HasPrefix(text, "*"):
			if end := strings.Index(text[1:], "*"); end > 0 && !strings.Contains(text[1:1+end], "`") {
				out.WriteString("<i>" + html.EscapeString(text[1:1+end]) + "</i>")
				text = text[end+2:]
				continue
			}
		}

		next := strings.IndexAny(text[1:], "`*")
		if next < 0 {
			out.WriteString(html.EscapeString(text))
			break
		}
		out.WriteString(html.EscapeString(text[:next+1]))
		text = text[next+1:]
	}
	return out.String()
}

// escapeWithin escapes s, cutting it on a rune boundary so the escaped
// result including the ellipsis stays within limit bytes
func escapeWithin(s string, limit int) string {
	escaped := html.EscapeString(s)
	if len(escaped) <= limit {
		return escaped
	}

	var out strings.Builder
	for _, r := range s {
		piece := html.EscapeString(string(r))
		if out.Len()+len(piece)+len(ellipsis) > limit {
			break
		}
		out.WriteString(piece)
	}
	return out.String() + ellipsis
}
