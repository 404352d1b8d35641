// Package ingest pulls pending content out of dashboard feed exports.
// A feed is an HTML page listing queue items as article.queue-item nodes;
// it is the bridge between the content dashboard and the review queue.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/swipedeck/swipedeck/internal/domain"
)

// FeedScanner fetches and parses dashboard feed pages.
type FeedScanner struct {
	client *http.Client
}

// NewFeedScanner wires an HTTP client; a nil client gets a 20s timeout.
func NewFeedScanner(client *http.Client) *FeedScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &FeedScanner{client: client}
}

// Fetch downloads a feed page and extracts its queue items.
func (s *FeedScanner) Fetch(ctx context.Context, feedURL string) ([]domain.QueueItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "SwipeDeck/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}
	return ParseFeed(resp.Body)
}

// ParseFeed extracts queue items from a feed document. Each item is an
// <article class="queue-item"> node:
//
//	<article class="queue-item" data-id="post-1" data-kind="approval">
//	  <div class="payload">caption text</div>
//	  <ul class="options"><li>option A</li><li>option B</li></ul>
//	  <div class="hint">option A</div>
//	  <time datetime="2026-08-31T10:00:00Z"></time>
//	</article>
//
// Items missing a data-id get a generated UUID so they can still be
// queued and deduplicated downstream. Structural problems (no payload,
// missing options on training items) are left for the engine to score as
// malformed; the parser never drops a node.
func ParseFeed(r io.Reader) ([]domain.QueueItem, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	var items []domain.QueueItem
	doc.Find("article.queue-item").Each(func(i int, node *goquery.Selection) {
		items = append(items, parseItem(node))
	})
	return items, nil
}

func parseItem(node *goquery.Selection) domain.QueueItem {
	item := domain.QueueItem{
		Kind:    domain.ItemApproval,
		Payload: strings.TrimSpace(node.Find(".payload").First().Text()),
		Hint:    strings.TrimSpace(node.Find(".hint").First().Text()),
	}

	if id, ok := node.Attr("data-id"); ok && strings.TrimSpace(id) != "" {
		item.ID = strings.TrimSpace(id)
	} else {
		item.ID = uuid.NewString()
	}
	if kind, ok := node.Attr("data-kind"); ok && kind != "" {
		item.Kind = domain.ItemKind(kind)
	}

	node.Find(".options li").Each(func(i int, li *goquery.Selection) {
		if opt := strings.TrimSpace(li.Text()); opt != "" {
			item.Options = append(item.Options, opt)
		}
	})

	if ts, ok := node.Find("time").First().Attr("datetime"); ok {
		if at, err := time.Parse(time.RFC3339, ts); err == nil {
			item.CreatedAt = at
		}
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	return item
}
