package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Info is the single JSON document served by the update feed.
type Info struct {
	Version     string `json:"version"`
	DownloadURL string `json:"download_url"`
	Notes       string `json:"notes"`
	Force       bool   `json:"force"`
}

type Checker struct {
	Client  *http.Client
	FeedURL string
}

func NewChecker(feedURL string) *Checker {
	return &Checker{
		Client:  &http.Client{Timeout: 10 * time.Second},
		FeedURL: feedURL,
	}
}

func (c *Checker) Check(ctx context.Context) (*Info, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FeedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("update: build request: %w", err)
	}

	res, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("update: fetch feed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("update: feed returned %s", res.Status)
	}

	var info Info
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("update: decode feed: %w", err)
	}
	return &info, nil
}

// IsNewer compares dotted numeric versions segment by segment.
func (i *Info) IsNewer(current string) bool {
	latest := strings.Split(strings.TrimPrefix(i.Version, "v"), ".")
	running := strings.Split(strings.TrimPrefix(current, "v"), ".")

	for n := 0; n < len(latest) || n < len(running); n++ {
		a, b := 0, 0
		if n < len(latest) {
			a, _ = strconv.Atoi(latest[n])
		}
		if n < len(running) {
			b, _ = strconv.Atoi(running[n])
		}
		if a != b {
			return a > b
		}
	}
	return false
}
