package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"linksummary/internal/domain"
)

const (
	youTubeBaseURL       = "https://www.youtube.com"
	playerResponseMarker = "ytInitialPlayerResponse"
	captionKindAuto      = "asr"

	MetaVideoID     = "video_id"
	MetaDescription = "description"
	MetaViewCount   = "view_count"
	MetaLength      = "length_seconds"
	MetaPublishDate = "publish_date"
	MetaCaptionLang = "caption_language"
)

var (
	ErrNoTranscript = errors.New("transcript is not available")

	youTubeIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions struct {
		Renderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	VideoDetails struct {
		VideoID          string `json:"videoId"`
		Title            string `json:"title"`
		Author           string `json:"author"`
		LengthSeconds    string `json:"lengthSeconds"`
		ViewCount        string `json:"viewCount"`
		ShortDescription string `json:"shortDescription"`
	} `json:"videoDetails"`
	Microformat struct {
		Renderer struct {
			PublishDate string `json:"publishDate"`
		} `json:"playerMicroformatRenderer"`
	} `json:"microformat"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

type timedText struct {
	Texts []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
}

// YouTubeLoader loads the caption transcript of a video together with its
// title, author and other video details.
type YouTubeLoader struct {
	getter    *httpGetter
	baseURL   string
	languages []string
	log       *slog.Logger
}

type YouTubeOption func(*YouTubeLoader)

// WithYouTubeBaseURL points the loader at another host, e.g. a test server.
func WithYouTubeBaseURL(baseURL string) YouTubeOption {
	return func(l *YouTubeLoader) {
		l.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func NewYouTubeLoader(
	client *http.Client,
	userAgent string,
	languages []string,
	log *slog.Logger,
	opts ...YouTubeOption,
) *YouTubeLoader {
	l := &YouTubeLoader{
		getter:    newHTTPGetter(client, userAgent, log),
		baseURL:   youTubeBaseURL,
		languages: languages,
		log:       log,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

func (l *YouTubeLoader) Name() string {
	return "youtube"
}

func (l *YouTubeLoader) Load(ctx context.Context, rawURL string) ([]domain.Document, error) {
	videoID, ok := VideoID(rawURL)
	if !ok {
		return nil, fmt.Errorf("extract video ID (URL = %s)", rawURL)
	}

	pr, err := l.fetchPlayerResponse(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("fetch player response: %w", err)
	}

	track, ok := selectCaptionTrack(pr.Captions.Renderer.CaptionTracks, l.languages)
	if !ok {
		return nil, ErrNoTranscript
	}

	transcript, err := l.fetchTranscript(ctx, track.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch transcript: %w", err)
	}
	if transcript == "" {
		return nil, ErrNoTranscript
	}

	metadata := map[string]string{
		MetaSource:      videoID,
		MetaVideoID:     videoID,
		MetaCaptionLang: track.LanguageCode,
	}

	details := pr.VideoDetails
	for key, value := range map[string]string{
		MetaTitle:       details.Title,
		MetaAuthor:      details.Author,
		MetaDescription: details.ShortDescription,
		MetaViewCount:   details.ViewCount,
		MetaLength:      details.LengthSeconds,
		MetaPublishDate: pr.Microformat.Renderer.PublishDate,
	} {
		if value = strings.TrimSpace(value); value != "" {
			metadata[key] = value
		}
	}

	return []domain.Document{{Content: transcript, Metadata: metadata}}, nil
}

func (l *YouTubeLoader) fetchPlayerResponse(ctx context.Context, videoID string) (*playerResponse, error) {
	watchURL := l.baseURL + "/watch?" + url.Values{"v": {videoID}, "hl": {"en"}}.Encode()

	page, err := l.getter.get(ctx, watchURL, acceptHTML)
	if err != nil {
		return nil, fmt.Errorf("fetch watch page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.body))
	if err != nil {
		return nil, fmt.Errorf("create document from reader: %w", err)
	}

	var (
		pr       *playerResponse
		parseErr error
	)

	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		script := s.Text()

		idx := strings.Index(script, playerResponseMarker)
		if idx < 0 {
			return true
		}

		start := strings.Index(script[idx:], "{")
		if start < 0 {
			return true
		}

		var decoded playerResponse
		if err = json.NewDecoder(strings.NewReader(script[idx+start:])).Decode(&decoded); err != nil {
			parseErr = fmt.Errorf("decode player response: %w", err)
			return true
		}

		pr = &decoded
		return false
	})

	if pr == nil {
		if parseErr != nil {
			return nil, parseErr
		}
		return nil, errors.New("player response is missing")
	}

	if status := pr.PlayabilityStatus.Status; status != "" && status != "OK" {
		return nil, fmt.Errorf("video is not playable (status = %s, reason = %s)", status, pr.PlayabilityStatus.Reason)
	}

	return pr, nil
}

func (l *YouTubeLoader) fetchTranscript(ctx context.Context, baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse caption URL: %w", err)
	}
	if !u.IsAbs() {
		u, err = url.Parse(l.baseURL + baseURL)
		if err != nil {
			return "", fmt.Errorf("parse caption URL: %w", err)
		}
	}

	// The default timedtext format is the flat <text> list.
	q := u.Query()
	q.Del("fmt")
	u.RawQuery = q.Encode()

	page, err := l.getter.get(ctx, u.String(), "application/xml,text/xml,*/*;q=0.8")
	if err != nil {
		return "", err
	}

	var tt timedText
	if err = xml.Unmarshal(page.body, &tt); err != nil {
		return "", fmt.Errorf("decode timedtext: %w", err)
	}

	parts := make([]string, 0, len(tt.Texts))
	for _, t := range tt.Texts {
		text := strings.Join(strings.Fields(html.UnescapeString(t.Text)), " ")
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}

	return strings.Join(parts, " "), nil
}

func selectCaptionTrack(tracks []captionTrack, languages []string) (captionTrack, bool) {
	if len(tracks) == 0 {
		return captionTrack{}, false
	}

	matches := func(track captionTrack, lang string) bool {
		code := strings.ToLower(track.LanguageCode)
		lang = strings.ToLower(strings.TrimSpace(lang))
		return code == lang || strings.HasPrefix(code, lang+"-")
	}

	for _, lang := range languages {
		for _, track := range tracks {
			if track.Kind != captionKindAuto && matches(track, lang) {
				return track, true
			}
		}
		for _, track := range tracks {
			if track.Kind == captionKindAuto && matches(track, lang) {
				return track, true
			}
		}
	}

	for _, track := range tracks {
		if track.Kind != captionKindAuto {
			return track, true
		}
	}

	return tracks[0], true
}

// IsYouTubeURL reports whether the URL points at a YouTube host.
func IsYouTubeURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}

	return isYouTubeHost(u.Hostname()) || isYouTubeShortHost(u.Hostname())
}

// VideoID extracts the 11-character video ID from watch, short, embed, live
// and youtu.be links.
func VideoID(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}

	host := u.Hostname()
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")

	var id string

	switch {
	case isYouTubeShortHost(host):
		id = parts[0]
	case isYouTubeHost(host):
		switch parts[0] {
		case "watch":
			id = u.Query().Get("v")
		case "shorts", "embed", "live", "v":
			if len(parts) > 1 {
				id = parts[1]
			}
		}
	}

	if !youTubeIDRe.MatchString(id) {
		return "", false
	}

	return id, true
}

func isYouTubeHost(host string) bool {
	host = strings.ToLower(host)
	for _, prefix := range []string{"www.", "m.", "music."} {
		host = strings.TrimPrefix(host, prefix)
	}

	return host == "youtube.com" || host == "youtube-nocookie.com"
}

func isYouTubeShortHost(host string) bool {
	return strings.EqualFold(host, "youtu.be")
}
