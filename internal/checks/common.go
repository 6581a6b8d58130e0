package checks

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/crolabs/lpqa/pkg/models"
)

// Status constructors. Check functions return only status, message, and
// evidence; the runner stamps identity (id, name, category) from the
// registration entry.

func pass(format string, args ...any) models.CheckResult {
	return models.CheckResult{Status: models.StatusPass, Message: fmt.Sprintf(format, args...)}
}

func fail(format string, args ...any) models.CheckResult {
	return models.CheckResult{Status: models.StatusFail, Message: fmt.Sprintf(format, args...)}
}

func warn(format string, args ...any) models.CheckResult {
	return models.CheckResult{Status: models.StatusWarn, Message: fmt.Sprintf(format, args...)}
}

func skip(format string, args ...any) models.CheckResult {
	return models.CheckResult{Status: models.StatusSkip, Message: fmt.Sprintf(format, args...)}
}

// withEvidence attaches a truncated evidence snippet to a result.
func withEvidence(r models.CheckResult, evidence string, max int) models.CheckResult {
	r.Evidence = truncate(evidence, max)
	return r
}

// ctaKeywords are the phrases that mark a link or sticky element as a call
// to action.
var ctaKeywords = []string{
	"get started", "apply", "enquire", "contact", "call", "book",
	"submit", "learn more", "sign up", "register",
}

// systemFonts are fallback families that do not count as loaded web fonts.
var systemFonts = map[string]bool{
	"arial": true, "helvetica": true, "times new roman": true,
	"serif": true, "sans-serif": true, "monospace": true,
	"system-ui": true, "-apple-system": true, "segoe ui": true,
}

// carouselMarkers identify carousel/slider libraries in page markup.
var carouselMarkers = []string{
	"carousel", "slider", "swiper", "slick", "owl-", "flickity", "glide",
}

// cdnMarkers identify CDN-served asset hosts.
var cdnMarkers = []string{
	"cdn", "cloudfront", "cloudflare", "fastly", "akamai", "stackpath",
}

// consoleNoiseMarkers identify third-party console errors that are outside
// the page author's control and excluded from hard failures.
var consoleNoiseMarkers = []string{
	"favicon", "third-party", "gtm", "analytics", "facebook", "tiktok",
}

// deadHrefs are placeholder link targets that go nowhere.
var deadHrefs = map[string]bool{
	"": true, "#": true, "javascript:void(0)": true, "javascript:;": true,
}

// truncate caps a string at max bytes for evidence display, never cutting
// inside a multibyte rune.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// foundMarkers returns the subset of markers present in s, case-insensitively.
func foundMarkers(s string, markers []string) []string {
	lower := strings.ToLower(s)
	var out []string
	for _, m := range markers {
		if strings.Contains(lower, m) {
			out = append(out, m)
		}
	}
	return out
}

// hasCTAText reports whether text contains any call-to-action phrase.
func hasCTAText(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range ctaKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// customFonts filters out system fallback families from a font list.
func customFonts(fonts []string) []string {
	var out []string
	for _, f := range fonts {
		if !systemFonts[strings.ToLower(f)] {
			out = append(out, f)
		}
	}
	return out
}

// firstN returns at most n items from list. Used to cap evidence lines.
func firstN[T any](list []T, n int) []T {
	if len(list) <= n {
		return list
	}
	return list[:n]
}

// visibleText walks markup and collects the text a visitor would read,
// skipping script, style, and noscript subtrees. A tokenizer error ends the
// walk with whatever was collected so far; checks degrade on partial text
// rather than failing.
func visibleText(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))
	var parts []string
	skipDepth := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(parts, " ")
		case html.StartTagToken:
			name, _ := z.TagName()
			if isInvisibleTag(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if isInvisibleTag(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				if t := strings.TrimSpace(string(z.Text())); t != "" {
					parts = append(parts, t)
				}
			}
		}
	}
}

func isInvisibleTag(tag string) bool {
	return tag == "script" || tag == "style" || tag == "noscript"
}

// headingTexts extracts the text of h1..h6 elements from markup.
func headingTexts(markup string) []string {
	z := html.NewTokenizer(strings.NewReader(markup))
	var out []string
	inHeading := false
	var current strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return out
		case html.StartTagToken:
			name, _ := z.TagName()
			if isHeadingTag(string(name)) {
				inHeading = true
				current.Reset()
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if isHeadingTag(string(name)) && inHeading {
				inHeading = false
				if t := strings.TrimSpace(current.String()); t != "" {
					out = append(out, t)
				}
			}
		case html.TextToken:
			if inHeading {
				current.WriteString(string(z.Text()))
			}
		}
	}
}

func isHeadingTag(tag string) bool {
	return len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6'
}
