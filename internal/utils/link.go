package utils

import (
	"net/url"
	"regexp"
	"strings"
)

// LinkKind is the rendering kind detected for a URL
type LinkKind string

// Detected kinds
const (
	KindStandard LinkKind = "standard"
	KindVideo    LinkKind = "video"
	KindImage    LinkKind = "image"
)

// Video platforms
const (
	PlatformYouTube = "youtube"
	PlatformVimeo   = "vimeo"
)

// LinkDetails describes how a URL should be embedded
type LinkDetails struct {
	Type     LinkKind `json:"type"`               // standard, video or image
	Platform string   `json:"platform,omitempty"` // youtube or vimeo for videos
	VideoID  string   `json:"videoId,omitempty"`  // Provider video identifier
	Src      string   `json:"src,omitempty"`      // Normalised image URL
}

var (
	imageExtRe = regexp.MustCompile(`(?i)\.(jpeg|jpg|gif|png|webp|svg|avif|tiff|bmp)$`)
	digitsRe   = regexp.MustCompile(`\d+`)
)

// NormalizeURL prepends https:// when raw has no http or https scheme
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + raw
}

// IsValidURL reports whether raw is a well-formed URL once normalised
func IsValidURL(raw string) bool {
	_, ok := parseNormalized(raw)
	return ok
}

// ParseLink classifies raw as an image, a YouTube/Vimeo video or a standard link.
// It never fails: anything unparseable is a standard link.
func ParseLink(raw string) LinkDetails {
	u, ok := parseNormalized(raw)
	if !ok {
		return LinkDetails{Type: KindStandard}
	}
	host := strings.ToLower(u.Hostname())

	if imageExtRe.MatchString(u.Path) {
		return LinkDetails{Type: KindImage, Src: NormalizeURL(raw)}
	}

	if hostIs(host, "youtube.com") || hostIs(host, "youtu.be") {
		if id := youTubeID(host, u); id != "" {
			return LinkDetails{Type: KindVideo, Platform: PlatformYouTube, VideoID: id}
		}
	}

	if hostIs(host, "vimeo.com") {
		if id := digitsRe.FindString(u.Path); id != "" {
			return LinkDetails{Type: KindVideo, Platform: PlatformVimeo, VideoID: id}
		}
	}

	return LinkDetails{Type: KindStandard}
}

func parseNormalized(raw string) (*url.URL, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	u, err := url.Parse(NormalizeURL(raw))
	if err != nil || u.Hostname() == "" {
		return nil, false
	}
	return u, true
}

// hostIs matches domain itself and any of its subdomains
func hostIs(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// youTubeID tries youtu.be/<id>, /embed/<id>, /shorts/<id> and ?v=<id> in that order
func youTubeID(host string, u *url.URL) string {
	var id string
	switch {
	case hostIs(host, "youtu.be"):
		id = strings.TrimPrefix(u.Path, "/")
	case strings.Contains(u.Path, "/embed/"):
		id = u.Path[strings.Index(u.Path, "/embed/")+len("/embed/"):]
	case strings.Contains(u.Path, "/shorts/"):
		id = u.Path[strings.Index(u.Path, "/shorts/")+len("/shorts/"):]
	default:
		id = u.Query().Get("v")
	}
	return cleanVideoID(id)
}

// cleanVideoID drops query, fragment and path noise trailing an extracted id
func cleanVideoID(id string) string {
	if i := strings.IndexAny(id, "?&#/"); i >= 0 {
		id = id[:i]
	}
	return strings.TrimSpace(id)
}
