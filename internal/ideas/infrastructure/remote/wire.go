package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/ideas/internal/ideas/domain"
)

// listResponse is the content API's listing payload as relayed by the proxy.
type listResponse struct {
	Data []wireItem `json:"data"`
	Meta struct {
		Total int `json:"total"`
	} `json:"meta"`
}

type wireItem struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	PublishedAt wireTime  `json:"published_at"`
	SmallImage  wireImage `json:"small_image"`
	MediumImage wireImage `json:"medium_image"`
}

// toItem maps the payload to a domain item, preferring the medium image,
// then the small one, then fallback.
func (w wireItem) toItem(fallback string) domain.Item {
	image := fallback
	switch {
	case w.MediumImage != "":
		image = string(w.MediumImage)
	case w.SmallImage != "":
		image = string(w.SmallImage)
	}
	return domain.Item{
		ID:    w.ID,
		Title: w.Title,
		Image: image,
		Date:  time.Time(w.PublishedAt),
	}
}

// wireImage accepts either a URL string or a list of {"url": ...} objects and
// keeps the first URL.
type wireImage string

func (i *wireImage) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*i = wireImage(s)
		return nil
	}

	var list []struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("image: %w", err)
	}
	for _, entry := range list {
		if entry.URL != "" {
			*i = wireImage(entry.URL)
			return nil
		}
	}
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// wireTime parses the timestamp formats the content API is known to emit.
type wireTime time.Time

func (t *wireTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("published_at: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = wireTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("published_at: unrecognized time %q", s)
}
