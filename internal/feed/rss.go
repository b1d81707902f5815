package feed

import (
	"cmp"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/abelbrown/tourfeed/internal/pager"
	"github.com/mmcdole/gofeed"
)

// RSSSource reads community posts from an RSS or Atom feed. The first
// category is the region; the remaining categories become tags. Comment
// counts come from the slash:comments extension when the feed carries it.
type RSSSource struct {
	url    string
	client *http.Client
}

// NewRSSSource creates a source for the feed at url.
func NewRSSSource(url string, timeout time.Duration) *RSSSource {
	return &RSSSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *RSSSource) Name() string { return "rss:" + s.url }

func (s *RSSSource) Load(ctx context.Context) ([]Record, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "tourfeed/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	records := make([]Record, 0, len(parsed.Items))
	for i, item := range parsed.Items {
		records = append(records, convertFeedItem(item, i))
	}
	return records, nil
}

func convertFeedItem(item *gofeed.Item, position int) Record {
	r := Record{
		ID: generateID(item, position),
		Rankings: map[string]int{
			pager.MetricLikes:    0,
			pager.MetricComments: slashComments(item),
		},
		Display: map[string]string{
			"title": strings.TrimSpace(item.Title),
			"link":  item.Link,
		},
	}

	if len(item.Categories) > 0 {
		r.GroupKey = NormalizeKey(item.Categories[0])
		for _, c := range item.Categories[1:] {
			if c = strings.TrimSpace(c); c != "" {
				r.Tags = append(r.Tags, c)
			}
		}
	}
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		r.Display["author"] = item.Authors[0].Name
	}
	if item.PublishedParsed != nil {
		r.Display["published"] = item.PublishedParsed.UTC().Format(time.RFC3339)
	}
	return r
}

func slashComments(item *gofeed.Item) int {
	exts, ok := item.Extensions["slash"]
	if !ok {
		return 0
	}
	values := exts["comments"]
	if len(values) == 0 {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(values[0].Value))
	if err != nil {
		return 0
	}
	return n
}

// generateID derives a stable ID from GUID, falling back to link and title.
// Items with none of them are keyed by their position in the feed.
func generateID(item *gofeed.Item, position int) string {
	key := cmp.Or(item.GUID, item.Link, item.Title)
	if key == "" {
		key = "position:" + strconv.Itoa(position)
	}
	sum := sha256.Sum256([]byte(key))
	return "rss-" + hex.EncodeToString(sum[:8])
}
