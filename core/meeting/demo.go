package meeting

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	zoomIDRegex   = regexp.MustCompile(`(?i)/(?:j|wc/join)/(\d{9,11})`)
	zoomNameRegex = regexp.MustCompile(`(?i)/meeting/([a-z0-9._-]+)`)
)

// ExtractCode extracts the platform-specific meeting identifier from a link,
// best effort; it returns "" when no identifier is recognized.
func ExtractCode(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	if bareCodeRegex.MatchString(link) {
		return link
	}
	if m := meetPathRegex.FindStringSubmatch(link); m != nil {
		return m[1]
	}
	if m := zoomIDRegex.FindStringSubmatch(link); m != nil {
		return m[1]
	}
	if m := zoomNameRegex.FindStringSubmatch(link); m != nil {
		return m[1]
	}
	return ""
}

// GenerateDemoLink builds a synthetic meeting link with the right shape for
// the platform and randomized content. Test/demo helper only; generated links
// are not expected to be live meetings.
func GenerateDemoLink(platform Platform) string {
	switch platform {
	case PlatformGoogleMeet:
		return fmt.Sprintf("https://meet.google.com/%s-%s-%s", letters(3), letters(4), letters(3))
	case PlatformZoom:
		return fmt.Sprintf("https://zoom.us/j/%d", 1_000_000_000+rand.Int63n(9_000_000_000))
	case PlatformTeams:
		return "https://teams.microsoft.com/l/meetup-join/" + uuid.NewString()
	default:
		return "https://meet.example.com/" + uuid.NewString()
	}
}

func letters(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(byte('a' + rand.Intn(26)))
	}
	return b.String()
}
