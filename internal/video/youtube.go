package video

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	searchContext     = "mental health wellness mindfulness"
	maxDescriptionLen = 200
)

var ErrYouTubeNotConfigured = errors.New("youtube: api key is required")

type YouTubeSearcher struct {
	svc *youtube.Service
}

// NewYouTubeSearcher builds a searcher authenticated with an API key. Extra
// client options are appended (tests point the endpoint at a local server).
func NewYouTubeSearcher(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTubeSearcher, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrYouTubeNotConfigured
	}
	all := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := youtube.NewService(ctx, all...)
	if err != nil {
		return nil, err
	}
	return &YouTubeSearcher{svc: svc}, nil
}

func (s *YouTubeSearcher) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if maxResults <= 0 {
		maxResults = 5
	}
	resp, err := s.svc.Search.List([]string{"id", "snippet"}).
		Q(strings.TrimSpace(query) + " " + searchContext).
		MaxResults(int64(maxResults)).
		Type("video").
		SafeSearch("strict").
		VideoCaption("any").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	out := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		sn := item.Snippet
		r := Result{
			ID:          item.Id.VideoId,
			Title:       sn.Title,
			Description: truncate(sn.Description, maxDescriptionLen) + "...",
			URL:         "https://www.youtube.com/watch?v=" + item.Id.VideoId,
			Channel:     sn.ChannelTitle,
		}
		if sn.Thumbnails != nil && sn.Thumbnails.Medium != nil {
			r.Thumbnail = sn.Thumbnails.Medium.Url
		}
		out = append(out, r)
	}
	return out, nil
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}
