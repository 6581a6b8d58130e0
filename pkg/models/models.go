package models

import (
	"fmt"
	"math"
)

// Status is the outcome of a single QA check.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusWarn Status = "warn"
	StatusSkip Status = "skip"
)

// Check categories, in fixed report order.
const (
	CategoryDeveloper  = "developer"
	CategoryDesigner   = "designer"
	CategoryCopywriter = "copywriter"
)

// Categories lists the registered check categories in report order.
var Categories = []string{CategoryDeveloper, CategoryDesigner, CategoryCopywriter}

// DefaultFormID is the form element id the checklist expects on landing pages.
const DefaultFormID = "lp-pom-form-42"

// ConsoleEntry is one console message captured during page load.
type ConsoleEntry struct {
	Type string `json:"type"`
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
	Line int64  `json:"line,omitempty"`
}

// NetworkRequest describes one response observed while loading the page.
type NetworkRequest struct {
	URL          string `json:"url"`
	Method       string `json:"method,omitempty"`
	Status       int    `json:"status"`
	ResourceType string `json:"resource_type"`
	Size         int64  `json:"size"`
}

// Image describes an <img> element with declared and natural dimensions.
type Image struct {
	Src             string `json:"src"`
	Alt             string `json:"alt,omitempty"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	NaturalWidth    int    `json:"natural_width"`
	NaturalHeight   int    `json:"natural_height"`
	Format          string `json:"format,omitempty"`
	HasTransparency bool   `json:"has_transparency,omitempty"`
}

// Link describes an anchor or link-like element.
type Link struct {
	Href   string `json:"href"`
	Text   string `json:"text"`
	Target string `json:"target,omitempty"`
	Tag    string `json:"tag"`
}

// FormField describes one input/select/textarea inside a form.
type FormField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	ID          string `json:"id,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required"`
	Value       string `json:"value,omitempty"`
	Label       string `json:"label,omitempty"`
}

// Form describes a <form> element and its ordered fields.
type Form struct {
	ID     string      `json:"id"`
	Action string      `json:"action,omitempty"`
	Method string      `json:"method,omitempty"`
	Fields []FormField `json:"fields"`
}

// Script describes a <script> element: external src or inline byte length.
type Script struct {
	Src          string `json:"src,omitempty"`
	InlineLength int    `json:"inline_length,omitempty"`
}

// StickyElement is a fixed/sticky positioned element (CTA bars and the like).
type StickyElement struct {
	Tag      string `json:"tag"`
	ID       string `json:"id,omitempty"`
	Classes  string `json:"classes,omitempty"`
	Text     string `json:"text"`
	Position string `json:"position"`
}

// CTAButton is an element that looks like a call to action.
type CTAButton struct {
	Text string `json:"text"`
	Tag  string `json:"tag"`
	Href string `json:"href,omitempty"`
	Type string `json:"type,omitempty"`
}

// ViewportSnapshot holds the substructure re-extracted at an alternate
// viewport (mobile). Callers that need nil safety go through
// PageSnapshot.MobileView, which returns a zero value when the mobile
// crawl did not run.
type ViewportSnapshot struct {
	StickyElements []StickyElement `json:"sticky_elements"`
	Forms          []Form          `json:"forms"`
	Images         []Image         `json:"images"`
	CTAButtons     []CTAButton     `json:"cta_buttons"`
	Links          []Link          `json:"links"`
	Fonts          []string        `json:"fonts"`
}

// PageSnapshot is everything extracted from a single page crawl. It is
// constructed once by the crawler and read-only afterwards; checks consume
// it concurrently without mutation.
type PageSnapshot struct {
	URL               string            `json:"url"`
	FinalURL          string            `json:"final_url"`
	Title             string            `json:"title"`
	MetaTitle         string            `json:"meta_title,omitempty"`
	StatusCode        int               `json:"status_code"`
	ConsoleErrors     []ConsoleEntry    `json:"console_errors"`
	ConsoleWarnings   []ConsoleEntry    `json:"console_warnings"`
	NetworkRequests   []NetworkRequest  `json:"network_requests"`
	Fonts             []string          `json:"fonts"`
	Images            []Image           `json:"images"`
	Links             []Link            `json:"links"`
	Forms             []Form            `json:"forms"`
	Scripts           []Script          `json:"scripts"`
	StickyElements    []StickyElement   `json:"sticky_elements"`
	DOMHTML           string            `json:"-"`
	Mobile            *ViewportSnapshot `json:"mobile,omitempty"`
	Compression       string            `json:"compression,omitempty"` // "gzip" | "br" | ""
	ScreenshotDesktop string            `json:"screenshot_desktop,omitempty"`
	ScreenshotMobile  string            `json:"screenshot_mobile,omitempty"`
	RedirectChain     []string          `json:"redirect_chain"`
	PageSizeBytes     int64             `json:"page_size_bytes"`
	LoadTimeMS        int64             `json:"load_time_ms"`
}

// MobileView returns the mobile viewport snapshot, or a zero value when the
// mobile crawl did not run. Checks that compare viewports degrade on the
// empty substructure instead of dereferencing a nil pointer.
func (s *PageSnapshot) MobileView() ViewportSnapshot {
	if s.Mobile == nil {
		return ViewportSnapshot{}
	}
	return *s.Mobile
}

// HasMobile reports whether the mobile crawl produced a snapshot.
func (s *PageSnapshot) HasMobile() bool { return s.Mobile != nil }

// QAContext carries the caller-supplied expectations for one QA run.
// One instance per run, shared read-only by every check.
type QAContext struct {
	LandingPageURL  string `json:"landing_page_url"`
	DesignURL       string `json:"design_url,omitempty"`
	CopyDocURL      string `json:"copy_doc_url,omitempty"`
	CampaignName    string `json:"campaign_name,omitempty"`
	ClientName      string `json:"client_name,omitempty"`
	TaskID          string `json:"task_id,omitempty"`
	ExpectedFormID  string `json:"expected_form_id,omitempty"`
	ExpectedCTAText string `json:"expected_cta_text,omitempty"`
	ThankYouURL     string `json:"thank_you_url,omitempty"`
}

// CheckResult is the outcome of one QA check. Produced once by its check
// function and never mutated.
type CheckResult struct {
	CheckID    string `json:"check_id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Status     Status `json:"status"`
	Message    string `json:"message"`
	Evidence   string `json:"evidence,omitempty"`
	Screenshot string `json:"screenshot,omitempty"`
}

// CategorySummary breaks down results for one category.
type CategorySummary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// Summary aggregates result counts for a report.
type Summary struct {
	Total      int                        `json:"total"`
	Passed     int                        `json:"passed"`
	Failed     int                        `json:"failed"`
	Warnings   int                        `json:"warnings"`
	Skipped    int                        `json:"skipped"`
	PassRate   string                     `json:"pass_rate"`
	ByCategory map[string]CategorySummary `json:"by_category"`
}

// QAReport aggregates the run context with every check result.
type QAReport struct {
	Context QAContext     `json:"context"`
	Results []CheckResult `json:"results"`
	Summary Summary       `json:"summary"`
}

// Passed returns the results with pass status, in report order.
func (r *QAReport) Passed() []CheckResult { return r.byStatus(StatusPass) }

// Failed returns the results with fail status, in report order.
func (r *QAReport) Failed() []CheckResult { return r.byStatus(StatusFail) }

// Warnings returns the results with warn status, in report order.
func (r *QAReport) Warnings() []CheckResult { return r.byStatus(StatusWarn) }

// Skipped returns the results with skip status, in report order.
func (r *QAReport) Skipped() []CheckResult { return r.byStatus(StatusSkip) }

func (r *QAReport) byStatus(st Status) []CheckResult {
	out := make([]CheckResult, 0, len(r.Results))
	for _, res := range r.Results {
		if res.Status == st {
			out = append(out, res)
		}
	}
	return out
}

// BuildSummary recomputes the summary from the current result slice. It is
// idempotent and must be called again after the results change; the summary
// is derived state, never maintained incrementally.
func (r *QAReport) BuildSummary() {
	s := Summary{
		Total:      len(r.Results),
		PassRate:   "N/A",
		ByCategory: map[string]CategorySummary{},
	}
	for _, res := range r.Results {
		switch res.Status {
		case StatusPass:
			s.Passed++
		case StatusFail:
			s.Failed++
		case StatusWarn:
			s.Warnings++
		case StatusSkip:
			s.Skipped++
		}
		cat := s.ByCategory[res.Category]
		cat.Total++
		switch res.Status {
		case StatusPass:
			cat.Passed++
		case StatusFail:
			cat.Failed++
		}
		s.ByCategory[res.Category] = cat
	}
	if s.Total > 0 {
		s.PassRate = fmt.Sprintf("%.0f%%", math.Round(float64(s.Passed)/float64(s.Total)*100))
	}
	r.Summary = s
}
