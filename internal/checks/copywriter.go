package checks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/crolabs/lpqa/internal/config"
	"github.com/crolabs/lpqa/pkg/models"
)

var copywriterChecks = []Check{
	{ID: "desktop_mobile_copy", Name: "Desktop/mobile copy parity", Category: models.CategoryCopywriter, Fn: checkDesktopMobileCopy},
	{ID: "spelling_grammar", Name: "Spelling & grammar", Category: models.CategoryCopywriter, Fn: checkSpellingGrammar},
	{ID: "capitalisation", Name: "Capitalisation consistency", Category: models.CategoryCopywriter, Fn: checkCapitalisation},
	{ID: "accessibility_copy", Name: "Accessibility (font size & contrast)", Category: models.CategoryCopywriter, Fn: checkAccessibilityCopy},
	{ID: "meta_title", Name: "Meta page title", Category: models.CategoryCopywriter, Fn: checkMetaTitle},
	{ID: "ux_copy", Name: "UX copy & CTA clarity", Category: models.CategoryCopywriter, Fn: checkUXCopy},
	{ID: "cro_vault", Name: "CRO vault entry", Category: models.CategoryCopywriter, Fn: checkCROVault},
	{ID: "cta_clarity", Name: "CTA copy variety", Category: models.CategoryCopywriter, Fn: checkCTAClarity},
	{ID: "form_labels", Name: "Form field labels", Category: models.CategoryCopywriter, Fn: checkFormLabels},
}

var (
	doubleSpaceRe = regexp.MustCompile(`  +`)
	misspellingRe = regexp.MustCompile(`(?i)\b(teh|recieve|occured|seperate|definately|accomodate)\b`)
	lowerStartRe  = regexp.MustCompile(`[.!?]\s*[a-z]`)
)

// vagueCTAs are generic CTA labels that say nothing about the action.
var vagueCTAs = map[string]bool{
	"click here": true, "submit": true, "click": true, "go": true, "ok": true,
}

func checkDesktopMobileCopy(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	desktopLinks := len(snap.Links)
	mobileLinks := len(snap.MobileView().Links)
	if delta := desktopLinks - mobileLinks; delta > th.LinkParityDelta || delta < -th.LinkParityDelta {
		return warn("Link count differs between desktop (%d) and mobile (%d). Some copy may be hidden on mobile.",
			desktopLinks, mobileLinks)
	}
	return pass("Desktop and mobile link structures are consistent. Visual copy check recommended for hidden sections.")
}

func checkSpellingGrammar(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	text := visibleText(snap.DOMHTML)
	var issues []string
	if n := len(doubleSpaceRe.FindAllString(text, -1)); n > 3 {
		issues = append(issues, fmt.Sprintf("%d double-space occurrences", n))
	}
	if m := misspellingRe.FindAllString(text, -1); len(m) > 0 {
		issues = append(issues, "common misspelling: found "+strings.Join(firstN(m, 3), ", "))
	}
	if n := len(lowerStartRe.FindAllString(text, -1)); n > 0 {
		issues = append(issues, fmt.Sprintf("%d sentences starting with lowercase (may be intentional)", n))
	}
	if len(issues) > 0 {
		return warn("Potential issues found: %s. Full spell-check recommended with copy doc comparison.",
			strings.Join(issues, "; "))
	}
	return pass("No obvious spelling/grammar issues detected. Manual proofread recommended.")
}

func checkCapitalisation(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	headings := headingTexts(snap.DOMHTML)
	if len(headings) < 2 {
		return skip("Fewer than 2 headings found, not enough to check consistency.")
	}
	titleCase, sentenceCase := 0, 0
	for _, h := range headings {
		if isTitleCase(h) || h == strings.ToUpper(h) {
			titleCase++
		} else {
			sentenceCase++
		}
	}
	lesser := titleCase
	if sentenceCase < lesser {
		lesser = sentenceCase
	}
	if lesser > 1 {
		r := warn("Mixed capitalisation: %d Title Case headings, %d sentence case. Pick one style and apply consistently.",
			titleCase, sentenceCase)
		var lines []string
		for _, h := range firstN(headings, 6) {
			lines = append(lines, "  "+truncate(h, 60))
		}
		return withEvidence(r, strings.Join(lines, "\n"), th.EvidenceMaxChars)
	}
	return pass("Heading capitalisation appears consistent across %d headings.", len(headings))
}

// isTitleCase reports whether every word longer than three characters starts
// with an uppercase letter.
func isTitleCase(s string) bool {
	words := strings.Fields(s)
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if len(w) <= 3 {
			continue
		}
		r := rune(w[0])
		if r >= 'a' && r <= 'z' {
			return false
		}
	}
	return true
}

func checkAccessibilityCopy(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	return skip("Full accessibility audit (WCAG AA contrast ratios, minimum font sizes) " +
		"requires a Lighthouse or axe-core integration.")
}

func checkMetaTitle(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	title := snap.Title
	if title == "" {
		return fail("No <title> tag found. Page needs a descriptive title for SEO and browser tabs.")
	}
	var issues []string
	if len(title) > th.TitleMaxChars {
		issues = append(issues, fmt.Sprintf("title is %d chars (recommended: <=%d for search display)", len(title), th.TitleMaxChars))
	}
	if len(title) < th.TitleMinChars {
		issues = append(issues, "title appears too short")
	}
	if containsFold(title, "untitled") || containsFold(title, "landing page") {
		issues = append(issues, "title appears to be a placeholder")
	}
	if len(issues) > 0 {
		return warn("Title: %q. Issues: %s", truncate(title, 60), strings.Join(issues, "; "))
	}
	msg := ""
	if snap.MetaTitle != "" {
		msg = "OG title: " + truncate(snap.MetaTitle, 60)
	} else {
		msg = "No OG meta title set."
	}
	return pass("Title: %q (%d chars). %s", truncate(title, 60), len(title), msg)
}

func checkUXCopy(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	ctas := snap.MobileView().CTAButtons
	if len(ctas) == 0 {
		return warn("No CTA buttons detected. Page may lack a clear call-to-action.")
	}
	var texts, vague []string
	for _, c := range ctas {
		t := strings.TrimSpace(c.Text)
		if t == "" {
			continue
		}
		texts = append(texts, t)
		if vagueCTAs[strings.ToLower(t)] {
			vague = append(vague, t)
		}
	}
	if len(vague) > 0 {
		return warn("Vague CTA copy detected: %s. Use action-specific language.", strings.Join(firstN(vague, 3), ", "))
	}
	shown := make([]string, 0, 3)
	for _, t := range firstN(texts, 3) {
		shown = append(shown, truncate(t, 30))
	}
	return pass("CTA text appears clear and specific: %s", strings.Join(shown, ", "))
}

func checkCROVault(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	return skip("CRO vault update is a manual process. " +
		"Reminder: add this page to the CRO vault landing page tracker spreadsheet.")
}

func checkCTAClarity(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	seen := map[string]bool{}
	var unique []string
	for _, link := range snap.Links {
		text := strings.TrimSpace(link.Text)
		if len(text) > 2 && len(text) < 50 && (link.Tag == "a" || link.Tag == "button") && !seen[text] {
			seen[text] = true
			unique = append(unique, text)
		}
	}
	if len(unique) > 5 {
		r := warn("%d distinct CTA texts found, may be too many competing actions.", len(unique))
		return withEvidence(r, strings.Join(firstN(unique, 8), "\n"), th.EvidenceMaxChars)
	}
	return pass("%d distinct CTA text(s) on page.", len(unique))
}

func checkFormLabels(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	if len(snap.Forms) == 0 {
		return skip("No forms on page.")
	}
	total := 0
	var unlabelled []string
	for _, form := range snap.Forms {
		for _, f := range form.Fields {
			total++
			if f.Label == "" && f.Placeholder == "" {
				name := f.Name
				if name == "" {
					name = f.ID
				}
				if name == "" {
					name = "unknown"
				}
				unlabelled = append(unlabelled, name)
			}
		}
	}
	if len(unlabelled) > 0 {
		r := warn("%d field(s) have no label or placeholder text.", len(unlabelled))
		return withEvidence(r, strings.Join(firstN(unlabelled, 5), ", "), th.EvidenceMaxChars)
	}
	return pass("All %d form fields have labels or placeholder text.", total)
}
