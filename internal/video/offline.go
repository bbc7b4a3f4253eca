package video

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const placeholderURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

// OfflineSearcher returns a fixed, templated result set. It is used whenever
// the live search is unavailable.
type OfflineSearcher struct{}

func (OfflineSearcher) Search(_ context.Context, query string, maxResults int) ([]Result, error) {
	q := strings.TrimSpace(query)
	title := cases.Title(language.English).String(q)

	out := []Result{
		{
			ID:          "mock1",
			Title:       fmt.Sprintf("Understanding %s: A Guide to Mental Wellness", title),
			Description: fmt.Sprintf("Learn effective techniques for managing %s and improving your mental health...", q),
			Thumbnail:   "https://via.placeholder.com/320x180/4A90E2/FFFFFF?text=Mental+Health+Video",
			URL:         placeholderURL,
			Channel:     "Mental Health Channel",
		},
		{
			ID:          "mock2",
			Title:       fmt.Sprintf("5-Minute %s Relief Meditation", title),
			Description: fmt.Sprintf("A quick and effective meditation to help with %s and promote calm...", q),
			Thumbnail:   "https://via.placeholder.com/320x180/5BA3F5/FFFFFF?text=Meditation",
			URL:         placeholderURL,
			Channel:     "Mindfulness Guide",
		},
		{
			ID:          "mock3",
			Title:       fmt.Sprintf("Professional Tips for %s Management", title),
			Description: fmt.Sprintf("Expert advice from licensed therapists on managing %s effectively...", q),
			Thumbnail:   "https://via.placeholder.com/320x180/6BB6FF/FFFFFF?text=Expert+Tips",
			URL:         placeholderURL,
			Channel:     "Therapy Insights",
		},
	}
	if maxResults > 0 && maxResults < len(out) {
		out = out[:maxResults]
	}
	return out, nil
}
