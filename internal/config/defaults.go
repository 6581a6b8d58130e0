package config

// DefaultMobileUserAgent impersonates an iPhone so mobile-only breakpoints
// and UA-gated content render during the mobile crawl.
const DefaultMobileUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) " +
	"AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

// DefaultTrackerBaseURL points at the hosted task-tracking API.
const DefaultTrackerBaseURL = "https://app.asana.com/api/1.0"

// LandingPageDomains identifies URLs that point at landing-page builders.
// Used when extracting the target URL from free-text task notes.
var LandingPageDomains = []string{
	"unbounce", "instapage", "leadpages", "landingi",
}

// InternalToolDomains are URLs that never identify the landing page itself
// and are skipped when falling back to "first URL in the notes".
var InternalToolDomains = []string{
	"asana.com", "figma.com", "docs.google", "drive.google",
	"slack.com", "whimsical.com", "canva.com",
}
