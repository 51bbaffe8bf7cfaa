package service

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	termDomain "github.com/reshetovitsme/termbot/internal/modules/term/domain"
	termService "github.com/reshetovitsme/termbot/internal/modules/term/service"
)

// Service publishes the term dictionary as a syndication feed
type Service struct {
	terms *termService.Service
}

// New creates a new feed service
func New(terms *termService.Service) *Service {
	return &Service{terms: terms}
}

// GenerateFeed builds a feed with one item per term, in dictionary order
func (s *Service) GenerateFeed(baseURL string) *feeds.Feed {
	updated := s.terms.UpdatedAt()

	feed := &feeds.Feed{
		Title:       "Glossary",
		Link:        &feeds.Link{Href: baseURL + "/rss"},
		Description: "Terms and definitions known to the bot",
		Created:     updated,
		Updated:     updated,
	}

	for _, entry := range s.terms.Entries() {
		feed.Items = append(feed.Items, s.entryToFeedItem(entry, baseURL, updated))
	}

	return feed
}

func (s *Service) entryToFeedItem(entry termDomain.Entry, baseURL string, updated time.Time) *feeds.Item {
	var content strings.Builder
	content.WriteString("<ul>")
	for _, def := range entry.Definitions {
		content.WriteString(fmt.Sprintf("<li>%s</li>", html.EscapeString(def)))
	}
	content.WriteString("</ul>")

	link := fmt.Sprintf("%s/rss#%s", baseURL, url.PathEscape(entry.Term))
	return &feeds.Item{
		Title:       entry.Term,
		Link:        &feeds.Link{Href: link},
		Description: strings.Join(entry.Definitions, "\n"),
		Content:     content.String(),
		Id:          link,
		Created:     updated,
	}
}
