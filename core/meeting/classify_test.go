package meeting

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantValid     bool
		wantPlatform  Platform
		wantCategory  Category
		wantCanonical string
		wantWarning   bool
	}{
		{name: "missing", input: "", wantPlatform: PlatformUnknown, wantCategory: CategoryMissing},
		{name: "whitespace only", input: "   \t ", wantPlatform: PlatformUnknown, wantCategory: CategoryEmpty},
		{
			name: "bare meet code", input: "abc-defg-hij",
			wantValid: true, wantPlatform: PlatformGoogleMeet, wantCategory: CategoryGoogleMeet,
			wantCanonical: "https://meet.google.com/abc-defg-hij",
		},
		{
			name: "bare meet code short form", input: "abc-defg",
			wantValid: true, wantPlatform: PlatformGoogleMeet, wantCategory: CategoryGoogleMeet,
			wantCanonical: "https://meet.google.com/abc-defg",
		},
		{
			name: "bare meet code upper case", input: "ABC-DEFG-HIJ",
			wantValid: true, wantPlatform: PlatformGoogleMeet, wantCategory: CategoryGoogleMeet,
			wantCanonical: "https://meet.google.com/ABC-DEFG-HIJ",
		},
		{name: "random words", input: "not a link", wantPlatform: PlatformUnknown, wantCategory: CategoryFormat},
		{name: "bad code shape", input: "ab-cdef-gh", wantPlatform: PlatformUnknown, wantCategory: CategoryFormat},
		{name: "http meet link", input: "http://meet.google.com/abc-defg-hij", wantPlatform: PlatformUnknown, wantCategory: CategorySecurity},
		{name: "http anything", input: "http://example.com/join", wantPlatform: PlatformUnknown, wantCategory: CategorySecurity},
		{name: "ftp scheme", input: "ftp://meet.google.com/abc-defg-hij", wantPlatform: PlatformUnknown, wantCategory: CategorySecurity},
		{
			name: "google meet link", input: "https://meet.google.com/abc-defg-hij",
			wantValid: true, wantPlatform: PlatformGoogleMeet, wantCategory: CategoryGoogleMeet,
			wantCanonical: "https://meet.google.com/abc-defg-hij",
		},
		{name: "google meet bad path", input: "https://meet.google.com/abcd", wantPlatform: PlatformUnknown, wantCategory: CategoryGoogleMeetFormat},
		{name: "google meet homepage", input: "https://meet.google.com/", wantPlatform: PlatformUnknown, wantCategory: CategoryGoogleMeetFormat},
		{
			name: "zoom join link", input: "https://zoom.us/j/1234567890",
			wantValid: true, wantPlatform: PlatformZoom, wantCategory: CategoryZoom,
			wantCanonical: "https://zoom.us/j/1234567890",
		},
		{
			name: "zoom subdomain join link", input: "https://us02web.zoom.us/j/12345678901",
			wantValid: true, wantPlatform: PlatformZoom, wantCategory: CategoryZoom,
			wantCanonical: "https://us02web.zoom.us/j/12345678901",
		},
		{
			name: "zoom web client link", input: "https://zoom.us/wc/join/123456789",
			wantValid: true, wantPlatform: PlatformZoom, wantCategory: CategoryZoom,
			wantCanonical: "https://zoom.us/wc/join/123456789",
		},
		{
			name: "zoom named meeting", input: "https://zoom.us/meeting/algebra-revision_2",
			wantValid: true, wantPlatform: PlatformZoom, wantCategory: CategoryZoom,
			wantCanonical: "https://zoom.us/meeting/algebra-revision_2",
		},
		{name: "zoom homepage", input: "https://zoom.us/", wantPlatform: PlatformUnknown, wantCategory: CategoryZoomFormat},
		{name: "zoom short id", input: "https://zoom.us/j/12345", wantPlatform: PlatformUnknown, wantCategory: CategoryZoomFormat},
		{
			name: "teams link", input: "https://teams.microsoft.com/l/meetup-join/19%3ameeting",
			wantValid: true, wantPlatform: PlatformTeams, wantCategory: CategoryTeams,
			wantCanonical: "https://teams.microsoft.com/l/meetup-join/19%3ameeting",
		},
		{
			name: "teams live link", input: "https://teams.live.com/meet/123",
			wantValid: true, wantPlatform: PlatformTeams, wantCategory: CategoryTeams,
			wantCanonical: "https://teams.live.com/meet/123",
		},
		{
			name: "unknown platform with meeting token", input: "https://whereby.com/tutor-call",
			wantValid: true, wantPlatform: PlatformOther, wantCategory: CategoryOther,
			wantCanonical: "https://whereby.com/tutor-call", wantWarning: true,
		},
		{
			name: "unknown platform join token", input: "https://example.com/join/xyz",
			wantValid: true, wantPlatform: PlatformOther, wantCategory: CategoryOther,
			wantCanonical: "https://example.com/join/xyz", wantWarning: true,
		},
		{
			name: "plain https url", input: "https://example.com/page",
			wantValid: true, wantPlatform: PlatformGeneric, wantCategory: CategoryGeneric,
			wantCanonical: "https://example.com/page", wantWarning: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.input)
			if got.IsValid != tt.wantValid {
				t.Errorf("Classify() IsValid = %v, want %v", got.IsValid, tt.wantValid)
			}
			if got.Platform != tt.wantPlatform {
				t.Errorf("Classify() Platform = %v, want %v", got.Platform, tt.wantPlatform)
			}
			if got.Category != tt.wantCategory {
				t.Errorf("Classify() Category = %v, want %v", got.Category, tt.wantCategory)
			}
			if got.CanonicalURL != tt.wantCanonical {
				t.Errorf("Classify() CanonicalURL = %q, want %q", got.CanonicalURL, tt.wantCanonical)
			}
			if got.Message == "" {
				t.Error("Classify() Message is empty")
			}
			if (got.Warning != "") != tt.wantWarning {
				t.Errorf("Classify() Warning = %q, wantWarning %v", got.Warning, tt.wantWarning)
			}
			// IsValid <=> CanonicalURL present; Unknown <=> invalid
			if got.IsValid != (got.CanonicalURL != "") {
				t.Errorf("Classify() IsValid = %v but CanonicalURL = %q", got.IsValid, got.CanonicalURL)
			}
			if (got.Platform == PlatformUnknown) == got.IsValid {
				t.Errorf("Classify() Platform = %v with IsValid = %v", got.Platform, got.IsValid)
			}
		})
	}
}

// a valid classification's canonical URL must classify as valid again,
// with the same canonical URL.
func TestClassify_canonicalIdempotence(t *testing.T) {
	inputs := []string{
		"abc-defg-hij",
		"XYZ-ABCD",
		"https://meet.google.com/abc-defg-hij",
		"https://zoom.us/j/1234567890",
		"https://teams.microsoft.com/l/meetup-join/19%3ameeting",
		"https://whereby.com/tutor-call",
		"https://example.com/page",
	}
	for _, input := range inputs {
		first := Classify(input)
		if !first.IsValid {
			t.Fatalf("Classify(%q) unexpectedly invalid: %s", input, first.Message)
		}
		second := Classify(first.CanonicalURL)
		if !second.IsValid {
			t.Errorf("Classify(%q) re-classification invalid: %s", first.CanonicalURL, second.Message)
		}
		if second.CanonicalURL != first.CanonicalURL {
			t.Errorf("Classify(%q) canonical drifted: %q", first.CanonicalURL, second.CanonicalURL)
		}
	}
}

func TestExtractCode(t *testing.T) {
	tests := []struct {
		name string
		link string
		want string
	}{
		{name: "bare code", link: "abc-defg-hij", want: "abc-defg-hij"},
		{name: "meet link", link: "https://meet.google.com/abc-defg-hij", want: "abc-defg-hij"},
		{name: "zoom join", link: "https://zoom.us/j/1234567890", want: "1234567890"},
		{name: "zoom web client", link: "https://zoom.us/wc/join/987654321", want: "987654321"},
		{name: "zoom named", link: "https://zoom.us/meeting/algebra-revision_2", want: "algebra-revision_2"},
		{name: "teams", link: "https://teams.microsoft.com/l/meetup-join/xyz%3a1", want: ""},
		{name: "empty", link: "", want: ""},
		{name: "garbage", link: "hello world", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractCode(tt.link); got != tt.want {
				t.Errorf("ExtractCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateDemoLink(t *testing.T) {
	for _, platform := range []Platform{PlatformGoogleMeet, PlatformZoom, PlatformTeams, PlatformOther} {
		link := GenerateDemoLink(platform)
		cls := Classify(link)
		if !cls.IsValid {
			t.Errorf("GenerateDemoLink(%v) = %q classified invalid: %s", platform, link, cls.Message)
		}
		if platform != PlatformOther && cls.Platform != platform {
			t.Errorf("GenerateDemoLink(%v) classified as %v (%q)", platform, cls.Platform, link)
		}
		if !strings.HasPrefix(link, "https://") {
			t.Errorf("GenerateDemoLink(%v) = %q is not HTTPS", platform, link)
		}
	}
}
