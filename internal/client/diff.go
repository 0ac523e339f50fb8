package client

import (
	"reflect"

	tvpackets "github.com/Brightline-Tech/argus/internal/http/api/tv/packets"
	"github.com/Brightline-Tech/argus/internal/model"
)

// The sync engine decides "did this resource change" by comparing
// normalized projections: only the fields that affect rendering, with
// volatile columns (created_at, updated_at, row ids) stripped. One
// shared comparison serves every resource type.

// normalizedEqual compares two slices after mapping each element
// through its normalizer.
func normalizedEqual[T any, N any](a, b []T, norm func(T) N) bool {
	if len(a) != len(b) {
		return false
	}
	na := make([]N, len(a))
	nb := make([]N, len(b))
	for i := range a {
		na[i] = norm(a[i])
		nb[i] = norm(b[i])
	}
	return reflect.DeepEqual(na, nb)
}

type contentKey struct {
	Name     string
	Type     string
	URL      string
	Duration int
	Position int
}

func normalizeContent(c model.Content) contentKey {
	return contentKey{Name: c.Name, Type: c.Type, URL: c.URL, Duration: c.Duration, Position: c.Position}
}

type rssKey struct {
	Title string
	Link  string
}

func normalizeRSS(i model.RSSItem) rssKey {
	return rssKey{Title: i.Title, Link: i.Link}
}

type messageKey struct {
	Body     string
	Position int
}

func normalizeMessage(m model.Message) messageKey {
	return messageKey{Body: m.Body, Position: m.Position}
}

func contentEqual(a, b []model.Content) bool {
	return normalizedEqual(a, b, normalizeContent)
}

func rssEqual(a, b []model.RSSItem) bool {
	return normalizedEqual(a, b, normalizeRSS)
}

func messagesEqual(a, b []model.Message) bool {
	return normalizedEqual(a, b, normalizeMessage)
}

func screenEqual(a, b *tvpackets.ScreenResponse) bool {
	if a == nil || b == nil {
		return a == b
	}
	return reflect.DeepEqual(*a, *b)
}
