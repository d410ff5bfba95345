// Package meeting classifies operator-supplied meeting links for the
// conferencing platforms the platform schedules tutoring sessions on.
package meeting

import (
	"net/url"
	"regexp"
	"strings"
)

// Platform identifies the conferencing platform a link belongs to.
type Platform string

const (
	PlatformGoogleMeet Platform = "google-meet"
	PlatformZoom       Platform = "zoom"
	PlatformTeams      Platform = "microsoft-teams"
	PlatformOther      Platform = "other"
	PlatformGeneric    Platform = "generic"
	PlatformUnknown    Platform = "unknown"
)

// Category is the fine-grained reason code behind a classification,
// one message template per category.
type Category string

const (
	CategoryMissing          Category = "missing"
	CategoryEmpty            Category = "empty"
	CategorySecurity         Category = "security"
	CategoryFormat           Category = "format"
	CategoryGoogleMeet       Category = "google-meet"
	CategoryGoogleMeetFormat Category = "google-meet-format"
	CategoryZoom             Category = "zoom"
	CategoryZoomFormat       Category = "zoom-format"
	CategoryTeams            Category = "teams"
	CategoryOther            Category = "other"
	CategoryGeneric          Category = "generic"
)

var messages = map[Category]string{
	CategoryMissing:          "no meeting link provided",
	CategoryEmpty:            "meeting link cannot be empty",
	CategorySecurity:         "meeting links must use HTTPS",
	CategoryFormat:           "this does not look like a meeting link or code",
	CategoryGoogleMeet:       "valid Google Meet link",
	CategoryGoogleMeetFormat: "Google Meet links must look like meet.google.com/xxx-yyyy-zzz",
	CategoryZoom:             "valid Zoom link",
	CategoryZoomFormat:       "Zoom link is missing a valid meeting id",
	CategoryTeams:            "valid Microsoft Teams link",
	CategoryOther:            "link accepted for an unrecognized meeting platform",
	CategoryGeneric:          "link accepted but does not look like a standard meeting link",
}

const (
	warnOther   = "unrecognized platform; verify the link manually before sharing"
	warnGeneric = "this does not look like a standard meeting link; verify it manually"
)

// Classification is the result of classifying a raw link string.
// IsValid is true iff CanonicalURL is set; Platform is Unknown iff invalid.
type Classification struct {
	IsValid      bool     `json:"is_valid"`
	Platform     Platform `json:"platform"`
	Category     Category `json:"category"`
	Message      string   `json:"message"`
	CanonicalURL string   `json:"canonical_url,omitempty"`
	Warning      string   `json:"warning,omitempty"`
}

var (
	// bare Google Meet code, e.g. "abc-defg-hij" or "abc-defg"
	bareCodeRegex = regexp.MustCompile(`^(?i)[a-z]{3}-[a-z]{4}(-[a-z]{3})?$`)

	meetPathRegex = regexp.MustCompile(`(?i)meet\.google\.com/([a-z]{3}-[a-z]{4}(-[a-z]{3})?)`)

	zoomRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)zoom\.us/j/\d{9,11}`),
		regexp.MustCompile(`(?i)zoom\.us/wc/join/\d{9,11}`),
		regexp.MustCompile(`(?i)zoom\.us/meeting/[a-z0-9._-]+`),
		regexp.MustCompile(`(?i)zoom\.com/j/\d{9,11}`),
	}

	meetingTokens = []string{"meet", "meeting", "join", "video", "call", "conference"}
)

// rule is a single (match, apply) entry of the classification cascade;
// rules are evaluated in order on a parsed HTTPS URL, first match wins.
type rule struct {
	match func(u *url.URL) bool
	apply func(raw string, u *url.URL) Classification
}

var rules = []rule{
	{matchGoogleMeet, applyGoogleMeet},
	{matchZoom, applyZoom},
	{matchTeams, applyTeams},
	{matchHeuristic, applyHeuristic},
	{matchAny, applyGeneric},
}

// Classify decides whether input is an acceptable meeting link.
// It is pure and total: every input maps to a Classification, never a failure.
func Classify(input string) Classification {
	if input == "" {
		return invalid(CategoryMissing)
	}
	raw := strings.TrimSpace(input)
	if raw == "" {
		return invalid(CategoryEmpty)
	}

	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		// not a URL; maybe a bare Google Meet code
		if bareCodeRegex.MatchString(raw) {
			return valid(PlatformGoogleMeet, CategoryGoogleMeet, "https://meet.google.com/"+raw)
		}
		return invalid(CategoryFormat)
	}
	if u.Scheme != "https" {
		return invalid(CategorySecurity)
	}

	for _, r := range rules {
		if r.match(u) {
			return r.apply(raw, u)
		}
	}
	// unreachable: the generic rule matches everything
	return invalid(CategoryFormat)
}

func valid(p Platform, c Category, canonical string, warning ...string) Classification {
	cls := Classification{
		IsValid:      true,
		Platform:     p,
		Category:     c,
		Message:      messages[c],
		CanonicalURL: canonical,
	}
	if len(warning) > 0 {
		cls.Warning = warning[0]
	}
	return cls
}

func invalid(c Category) Classification {
	return Classification{
		Platform: PlatformUnknown,
		Category: c,
		Message:  messages[c],
	}
}

// Google Meet: exact hostname, path must carry a well-formed meet code.

func matchGoogleMeet(u *url.URL) bool {
	return u.Hostname() == "meet.google.com"
}

func applyGoogleMeet(raw string, u *url.URL) Classification {
	if meetPathRegex.MatchString(raw) {
		return valid(PlatformGoogleMeet, CategoryGoogleMeet, raw)
	}
	return invalid(CategoryGoogleMeetFormat)
}

// Zoom: any zoom.us/zoom.com hostname, full URL must carry a meeting id.

func matchZoom(u *url.URL) bool {
	host := u.Hostname()
	return strings.Contains(host, "zoom.us") || strings.Contains(host, "zoom.com")
}

func applyZoom(raw string, u *url.URL) Classification {
	for _, re := range zoomRegexes {
		if re.MatchString(raw) {
			return valid(PlatformZoom, CategoryZoom, raw)
		}
	}
	return invalid(CategoryZoomFormat)
}

// Teams: any HTTPS URL on a Teams domain is accepted as-is.

func matchTeams(u *url.URL) bool {
	host := u.Hostname()
	return strings.Contains(host, "teams.microsoft.com") || strings.Contains(host, "teams.live.com")
}

func applyTeams(raw string, u *url.URL) Classification {
	return valid(PlatformTeams, CategoryTeams, raw)
}

// Heuristic fallback: unknown host but the URL smells like a meeting link.
// Rejecting unknown-but-legitimate platforms would block real workflows.

func matchHeuristic(u *url.URL) bool {
	lower := strings.ToLower(u.String())
	for _, tok := range meetingTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

func applyHeuristic(raw string, u *url.URL) Classification {
	return valid(PlatformOther, CategoryOther, raw, warnOther)
}

// Final fallback: any remaining HTTPS URL is accepted with a warning.

func matchAny(u *url.URL) bool { return true }

func applyGeneric(raw string, u *url.URL) Classification {
	return valid(PlatformGeneric, CategoryGeneric, raw, warnGeneric)
}
