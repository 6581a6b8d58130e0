package checks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/crolabs/lpqa/internal/config"
	"github.com/crolabs/lpqa/pkg/models"
)

// developerChecks maps the developer post-dev checklist to automated
// predicates. Items that need subjective human judgment or a live form
// submission stay skip with guidance.
var developerChecks = []Check{
	{ID: "correct_group", Name: "Landing page in correct builder group", Category: models.CategoryDeveloper, Fn: checkCorrectGroup},
	{ID: "new_variant", Name: "Updates on new variant", Category: models.CategoryDeveloper, Fn: checkNewVariant},
	{ID: "fonts_match", Name: "Fonts match design", Category: models.CategoryDeveloper, Fn: checkFontsMatch},
	{ID: "images_match", Name: "Images match design (broken image check)", Category: models.CategoryDeveloper, Fn: checkImagesMatch},
	{ID: "image_formats", Name: "Image format optimisation", Category: models.CategoryDeveloper, Fn: checkImageFormats},
	{ID: "sticky_cta_mobile", Name: "Sticky CTA on mobile", Category: models.CategoryDeveloper, Fn: checkStickyCTAMobile},
	{ID: "sticky_cta_text", Name: "Sticky CTA text matches brief", Category: models.CategoryDeveloper, Fn: checkStickyCTAText},
	{ID: "price_updates", Name: "Price consistency across sections", Category: models.CategoryDeveloper, Fn: checkPriceUpdates},
	{ID: "copy_matches", Name: "Copy matches copy doc", Category: models.CategoryDeveloper, Fn: checkCopyMatches},
	{ID: "cta_scroll_target", Name: "CTA scrolls to form", Category: models.CategoryDeveloper, Fn: checkCTAScrollTarget},
	{ID: "cta_hover_color", Name: "CTA hover colour change", Category: models.CategoryDeveloper, Fn: checkCTAHoverColor},
	{ID: "carousel_functioning", Name: "Carousel functioning", Category: models.CategoryDeveloper, Fn: checkCarouselFunctioning},
	{ID: "carousel_transition", Name: "Carousel transition speed", Category: models.CategoryDeveloper, Fn: checkCarouselTransition},
	{ID: "form_fields", Name: "Form fields present", Category: models.CategoryDeveloper, Fn: checkFormFields},
	{ID: "field_names", Name: "Standard field naming", Category: models.CategoryDeveloper, Fn: checkFieldNames},
	{ID: "form_id", Name: "Form ID matches expected", Category: models.CategoryDeveloper, Fn: checkFormID},
	{ID: "placeholder_styling", Name: "Placeholder text styling", Category: models.CategoryDeveloper, Fn: checkPlaceholderStyling},
	{ID: "form_validation", Name: "Form validation", Category: models.CategoryDeveloper, Fn: checkFormValidation},
	{ID: "form_values_clean", Name: "Form values free of codes", Category: models.CategoryDeveloper, Fn: checkFormValuesClean},
	{ID: "lead_submission", Name: "Lead submission test", Category: models.CategoryDeveloper, Fn: checkLeadSubmission},
	{ID: "sms_client_name", Name: "SMS verification client name", Category: models.CategoryDeveloper, Fn: checkSMSClientName},
	{ID: "sms_verification", Name: "SMS verification present", Category: models.CategoryDeveloper, Fn: checkSMSVerification},
	{ID: "redirect_thankyou", Name: "Redirect to thank-you page", Category: models.CategoryDeveloper, Fn: checkRedirectThankYou},
	{ID: "thankyou_redirect", Name: "Thank-you to confirmation redirect", Category: models.CategoryDeveloper, Fn: checkThankYouRedirect},
	{ID: "uli_parameters", Name: "URL parameter pass-through", Category: models.CategoryDeveloper, Fn: checkULIParameters},
	{ID: "ux_testing", Name: "Interactive elements UX", Category: models.CategoryDeveloper, Fn: checkUXTesting},
	{ID: "page_titles", Name: "Page title set", Category: models.CategoryDeveloper, Fn: checkPageTitles},
	{ID: "console_errors", Name: "No console errors", Category: models.CategoryDeveloper, Fn: checkConsoleErrors},
	{ID: "unused_scripts", Name: "Script cleanup", Category: models.CategoryDeveloper, Fn: checkUnusedScripts},
	{ID: "urls_no_variant", Name: "URL free of variant letter", Category: models.CategoryDeveloper, Fn: checkURLsNoVariant},
	{ID: "page_speed", Name: "Page load speed under threshold", Category: models.CategoryDeveloper, Fn: checkPageSpeed},
	{ID: "gtm_present", Name: "Tag manager implemented", Category: models.CategoryDeveloper, Fn: checkGTMPresent},
	{ID: "image_compression", Name: "Image compression and sizing", Category: models.CategoryDeveloper, Fn: checkImageCompression},
	{ID: "code_minification", Name: "Code minification", Category: models.CategoryDeveloper, Fn: checkCodeMinification},
	{ID: "server_compression", Name: "Server compression (gzip/brotli)", Category: models.CategoryDeveloper, Fn: checkServerCompression},
	{ID: "footer_legal_links", Name: "Footer legal links (T&C, privacy, disclaimer)", Category: models.CategoryDeveloper, Fn: checkFooterLegalLinks},
	{ID: "cache_headers", Name: "Caching and CDN", Category: models.CategoryDeveloper, Fn: checkCacheHeaders},
}

var (
	variantURLRe    = regexp.MustCompile(`/([a-c])/?$`)
	genericFieldRe  = regexp.MustCompile(`(?i)^(field_?\d+|input\d+|q\d+)$`)
	templateCodeRe  = regexp.MustCompile(`[{}<>]|%7[Bb]|%7[Dd]|\{\{|\[\[`)
	gtmContainerRe  = regexp.MustCompile(`GTM-[A-Z0-9]{4,}`)
	autoplayValueRe = regexp.MustCompile(`(?i)autoplay["\s:]*(\d+)`)
	slideSpeedRe    = regexp.MustCompile(`(?i)(?:speed|delay|interval)["\s:]*(\d+)`)
	styleBlockRe    = regexp.MustCompile(`(?is)<style[^>]*>(.*?)</style>`)
)

// paramMarkers identify URL-parameter forwarding logic in page scripts.
var paramMarkers = []string{
	"utm_", "uli", "gclid", "fbclid", "URLSearchParams",
	"window.location.search", "getParam", "queryString",
}

func checkCorrectGroup(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	isBuilder := containsFold(snap.DOMHTML, "unbounce")
	for _, s := range snap.Scripts {
		if containsFold(s.Src, "unbounce") {
			isBuilder = true
		}
	}
	if !isBuilder {
		return skip("Builder platform not detected on page. Skip.")
	}
	r := warn("Unbounce detected. Verify group assignment manually in the builder dashboard.")
	return withEvidence(r, "unbounce", th.EvidenceMaxChars)
}

func checkNewVariant(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	return skip("Manual check: confirm this update was done on a new variant, not the live original.")
}

func checkFontsMatch(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	custom := customFonts(snap.Fonts)
	if len(custom) == 0 {
		r := warn("No custom web fonts detected, only system fonts found. Likely missing the design font.")
		return withEvidence(r, "Fonts found: "+strings.Join(firstN(snap.Fonts, 10), ", "), th.EvidenceMaxChars)
	}
	r := pass("Custom fonts loaded: %s. Verify these match the design spec.", strings.Join(firstN(custom, 5), ", "))
	return withEvidence(r, "All fonts: "+strings.Join(firstN(snap.Fonts, 15), ", "), th.EvidenceMaxChars)
}

func checkImagesMatch(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	var broken []string
	for _, img := range snap.Images {
		if img.NaturalWidth == 0 && img.Src != "" {
			broken = append(broken, truncate(img.Src, 120))
		}
	}
	if len(broken) > 0 {
		r := fail("%d broken image(s) detected (0 natural width).", len(broken))
		return withEvidence(r, strings.Join(firstN(broken, 5), "\n"), th.EvidenceMaxChars)
	}
	if len(snap.Images) == 0 {
		return warn("No images found on page.")
	}
	return pass("%d images loaded, none broken. Visual match to design requires manual review.", len(snap.Images))
}

func checkImageFormats(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	if len(snap.Images) == 0 {
		return skip("No images on page.")
	}
	var largePNGs []string
	modern := 0
	for _, img := range snap.Images {
		if img.Format == "png" && !img.HasTransparency && img.NaturalWidth > 200 {
			largePNGs = append(largePNGs, truncate(img.Src, 120))
		}
		if img.Format == "webp" || img.Format == "avif" {
			modern++
		}
	}
	if len(largePNGs) > 0 {
		r := warn("%d PNG image(s) may not need transparency. Consider WebP or AVIF.", len(largePNGs))
		return withEvidence(r, strings.Join(firstN(largePNGs, 5), "\n"), th.EvidenceMaxChars)
	}
	return pass("Image formats OK. %d modern format(s) detected out of %d total.", modern, len(snap.Images))
}

func checkStickyCTAMobile(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	sticky := snap.MobileView().StickyElements
	if len(sticky) == 0 {
		if !snap.HasMobile() {
			return fail("Mobile snapshot unavailable; sticky CTA bar could not be verified.")
		}
		return fail("No sticky/fixed elements detected on mobile viewport.")
	}
	for _, s := range sticky {
		if hasCTAText(s.Text) {
			return pass("Sticky CTA found on mobile: %q", truncate(s.Text, 80))
		}
	}
	texts := make([]string, 0, 3)
	for _, s := range firstN(sticky, 3) {
		texts = append(texts, truncate(s.Text, 80))
	}
	r := warn("Sticky elements found (%d) but none look like a CTA. Manual verification needed.", len(sticky))
	return withEvidence(r, strings.Join(texts, "\n"), th.EvidenceMaxChars)
}

func checkStickyCTAText(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	if qa.ExpectedCTAText == "" {
		return skip("No expected CTA text provided in context. Provide --cta-text to enable.")
	}
	for _, s := range snap.MobileView().StickyElements {
		if containsFold(s.Text, qa.ExpectedCTAText) {
			return pass("Expected CTA text %q found in sticky elements.", qa.ExpectedCTAText)
		}
	}
	return fail("Expected CTA text %q NOT found in sticky elements.", qa.ExpectedCTAText)
}

func checkPriceUpdates(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	return skip("Price validation requires brief context. Manual check: verify prices match across all page sections.")
}

func checkCopyMatches(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	if qa.CopyDocURL == "" {
		return skip("No copy doc URL provided. Provide --copy-doc to enable automated comparison.")
	}
	return skip("Copy doc provided (%s). Full text comparison requires a document API integration.", truncate(qa.CopyDocURL, 60))
}

func checkCTAScrollTarget(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	formIDs := map[string]bool{}
	var idList []string
	for _, f := range snap.Forms {
		if f.ID != "" {
			formIDs[f.ID] = true
			idList = append(idList, f.ID)
		}
	}
	var anchors []models.Link
	for _, l := range snap.Links {
		if strings.Contains(l.Href, "#") && hasCTAText(l.Text) {
			anchors = append(anchors, l)
		}
	}
	if len(anchors) == 0 {
		return warn("No anchor-linked CTA buttons found. Manual check: verify CTAs scroll to form.")
	}
	expected := strings.TrimPrefix(qa.ExpectedFormID, "#")
	var targets []string
	for _, cta := range anchors {
		anchor := cta.Href[strings.LastIndex(cta.Href, "#")+1:]
		if formIDs[anchor] || (expected != "" && anchor == expected) {
			return pass("CTA %q links to #%s which matches a form on the page.", truncate(cta.Text, 50), anchor)
		}
		targets = append(targets, anchor)
	}
	r := warn("CTA anchor targets don't match detected form IDs. Verify scroll target manually.")
	ev := fmt.Sprintf("CTA targets: %s; form IDs: %s",
		strings.Join(firstN(targets, 3), ", "), strings.Join(idList, ", "))
	return withEvidence(r, ev, th.EvidenceMaxChars)
}

func checkCTAHoverColor(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	// Hover states cannot be exercised from a static snapshot.
	return warn("CSS transitions may be present on CTA elements. Visual verification of hover colour recommended.")
}

func checkCarouselFunctioning(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	found := foundMarkers(snap.DOMHTML, carouselMarkers)
	if len(found) == 0 {
		return skip("No carousel/slider elements detected on page.")
	}
	return warn("Carousel detected (%s). Functionality requires interactive testing.", strings.Join(found, ", "))
}

func checkCarouselTransition(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	if len(foundMarkers(snap.DOMHTML, carouselMarkers[:4])) == 0 {
		return skip("No carousel detected.")
	}
	var evidence []string
	if m := autoplayValueRe.FindStringSubmatch(snap.DOMHTML); m != nil {
		evidence = append(evidence, "autoplay="+m[1]+"ms")
	}
	if m := slideSpeedRe.FindStringSubmatch(snap.DOMHTML); m != nil {
		evidence = append(evidence, "speed/delay="+m[1]+"ms")
	}
	r := warn("Carousel auto-transition settings detected. Verify speed meets requirements.")
	if len(evidence) == 0 {
		return withEvidence(r, "No explicit speed values found in markup.", th.EvidenceMaxChars)
	}
	return withEvidence(r, strings.Join(evidence, ", "), th.EvidenceMaxChars)
}

func checkFormFields(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	if len(snap.Forms) == 0 {
		return fail("No forms detected on the page.")
	}
	total := 0
	var summary []string
	for _, form := range snap.Forms {
		total += len(form.Fields)
		for _, f := range form.Fields {
			name := f.Name
			if name == "" {
				name = f.ID
			}
			summary = append(summary, fmt.Sprintf("%s (%s)", name, f.Type))
		}
	}
	r := pass("%d form(s) with %d field(s) detected. Verify against brief.", len(snap.Forms), total)
	return withEvidence(r, strings.Join(firstN(summary, 15), "\n"), th.EvidenceMaxChars)
}

func checkFieldNames(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	if len(snap.Forms) == 0 {
		return skip("No forms found.")
	}
	var suspicious []string
	for _, form := range snap.Forms {
		for _, f := range form.Fields {
			if genericFieldRe.MatchString(f.Name) {
				suspicious = append(suspicious, f.Name)
			}
		}
	}
	if len(suspicious) > 0 {
		r := warn("%d field(s) with generic names detected. May break integrations.", len(suspicious))
		return withEvidence(r, strings.Join(firstN(suspicious, 5), ", "), th.EvidenceMaxChars)
	}
	return pass("Field names appear to follow standard naming conventions.")
}

func checkFormID(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	expected := qa.ExpectedFormID
	if expected == "" {
		expected = models.DefaultFormID
	}
	var ids []string
	for _, f := range snap.Forms {
		if f.ID != "" {
			ids = append(ids, f.ID)
		}
	}
	for _, id := range ids {
		if id == expected {
			return pass("Form with id=%q found.", expected)
		}
	}
	if len(ids) > 0 {
		r := fail("Expected form id=%q but found: %s", expected, strings.Join(ids, ", "))
		return withEvidence(r, "Form IDs on page: "+strings.Join(ids, ", "), th.EvidenceMaxChars)
	}
	return fail("No forms with IDs found on page. Expected %q.", expected)
}

func checkPlaceholderStyling(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	if containsFold(snap.DOMHTML, "placeholder") {
		return pass("Placeholder styling rules found in page CSS.")
	}
	return warn("No explicit ::placeholder CSS rules detected. Verify placeholder text is lighter than typed text.")
}

func checkFormValidation(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	if len(snap.Forms) == 0 {
		return skip("No forms on page.")
	}
	required := 0
	for _, form := range snap.Forms {
		for _, f := range form.Fields {
			if f.Required {
				required++
			}
		}
	}
	mobileForms := len(snap.MobileView().Forms)
	msg := fmt.Sprintf("%d required field(s) with HTML validation. Desktop forms: %d, mobile forms: %d. "+
		"Full validation testing requires form submission (see lead_submission check).",
		required, len(snap.Forms), mobileForms)
	if required > 0 {
		return pass("%s", msg)
	}
	return warn("%s", msg)
}

func checkFormValuesClean(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	var suspicious []string
	for _, form := range snap.Forms {
		for _, f := range form.Fields {
			if f.Value != "" && templateCodeRe.MatchString(f.Value) {
				suspicious = append(suspicious, f.Name+"="+truncate(f.Value, 50))
			}
		}
	}
	if len(suspicious) > 0 {
		r := fail("Found %d field(s) with suspicious code-like values.", len(suspicious))
		return withEvidence(r, strings.Join(firstN(suspicious, 5), "\n"), th.EvidenceMaxChars)
	}
	return pass("No code-like values found in form field defaults.")
}

func checkLeadSubmission(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	return skip("Live form submission requires a test harness with known-good data. " +
		"Enable once test submission data is configured.")
}

func checkSMSClientName(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	if !hasSMSVerification(snap.DOMHTML, false) {
		return skip("No SMS verification detected on page.")
	}
	return warn("SMS verification detected. Manually verify the client name is correct in the SMS message.")
}

func checkSMSVerification(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	if !hasSMSVerification(snap.DOMHTML, true) {
		return skip("No SMS verification elements detected.")
	}
	return warn("SMS verification markup detected. Interactive test required to verify the end-to-end flow.")
}

func hasSMSVerification(markup string, allowCodeMarker bool) bool {
	lower := strings.ToLower(markup)
	if !strings.Contains(lower, "sms") {
		return false
	}
	if strings.Contains(lower, "verif") || strings.Contains(lower, "otp") {
		return true
	}
	return allowCodeMarker && strings.Contains(lower, "code")
}

func checkRedirectThankYou(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	if qa.ThankYouURL != "" {
		return skip("Thank-you URL configured (%s). Redirect testing requires live form submission.", truncate(qa.ThankYouURL, 60))
	}
	return skip("Provide --thank-you-url to enable redirect validation after form submission.")
}

func checkThankYouRedirect(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	return skip("Multi-step redirect chain testing requires sequential page navigation after a form submission.")
}

func checkULIParameters(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	found := foundMarkers(snap.DOMHTML, paramMarkers)
	if len(found) > 0 {
		return pass("URL parameter handling detected in page scripts: %s", strings.Join(firstN(found, 3), ", "))
	}
	return warn("No URL parameter forwarding logic detected in page scripts. " +
		"Manually test: add ?utm_source=test to the URL and verify it carries through to the thank-you page.")
}

func checkUXTesting(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	var dead []string
	for _, l := range snap.Links {
		if deadHrefs[l.Href] {
			dead = append(dead, fmt.Sprintf("%q -> %s", truncate(l.Text, 40), truncate(l.Href, 60)))
		}
	}
	if len(dead) > 0 {
		r := warn("%d dead/placeholder link(s) found out of %d total.", len(dead), len(snap.Links))
		return withEvidence(r, strings.Join(firstN(dead, 5), "\n"), th.EvidenceMaxChars)
	}
	return pass("%d links and %d forms found. No dead links detected.", len(snap.Links), len(snap.Forms))
}

func checkPageTitles(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	if snap.Title == "" {
		return fail("Page has no <title> tag.")
	}
	if qa.ClientName != "" && !containsFold(snap.Title, qa.ClientName) {
		return warn("Page title %q does not contain client name %q.", truncate(snap.Title, 60), qa.ClientName)
	}
	msg := fmt.Sprintf("Title: %q", truncate(snap.Title, 80))
	if snap.MetaTitle != "" {
		msg += fmt.Sprintf(" | OG: %q", truncate(snap.MetaTitle, 80))
	}
	return pass("%s", msg)
}

func checkConsoleErrors(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	var real []string
	for _, e := range snap.ConsoleErrors {
		if len(foundMarkers(e.Text, consoleNoiseMarkers)) == 0 {
			real = append(real, fmt.Sprintf("[%s] %s", e.Type, truncate(e.Text, 100)))
		}
	}
	if len(real) > 0 {
		r := fail("%d console error(s) detected (excluding third-party noise).", len(real))
		return withEvidence(r, strings.Join(firstN(real, 5), "\n"), th.EvidenceMaxChars)
	}
	if len(snap.ConsoleErrors) > 0 {
		return warn("%d console error(s) detected, but all appear to be third-party (tag manager, analytics).", len(snap.ConsoleErrors))
	}
	return pass("No console errors detected.")
}

func checkUnusedScripts(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	external, inline, inlineBytes := 0, 0, 0
	for _, s := range snap.Scripts {
		if s.Src != "" {
			external++
		} else if s.InlineLength > 0 {
			inline++
			inlineBytes += s.InlineLength
		}
	}
	if inlineBytes > th.InlineScriptWarnB {
		return warn("%d external + %d inline scripts. Total inline JS: %d bytes, may contain unused code.",
			external, inline, inlineBytes)
	}
	return pass("%d external + %d inline scripts. Inline JS: %d bytes.", external, inline, inlineBytes)
}

func checkURLsNoVariant(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	if m := variantURLRe.FindStringSubmatch(snap.FinalURL); m != nil {
		r := fail("URL contains variant letter '/%s'. Published URL should not expose the variant.", m[1])
		return withEvidence(r, snap.FinalURL, th.EvidenceMaxChars)
	}
	return pass("URL does not contain a variant letter suffix.")
}

func checkPageSpeed(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	limit := th.PageSpeedMaxMS
	warnAt := int64(float64(limit) * th.PageSpeedWarnRatio)
	switch {
	case snap.LoadTimeMS > limit:
		r := fail("Page load time %dms exceeds %dms threshold.", snap.LoadTimeMS, limit)
		return withEvidence(r, fmt.Sprintf("load_time_ms=%d", snap.LoadTimeMS), th.EvidenceMaxChars)
	case snap.LoadTimeMS >= warnAt:
		r := warn("Page load time %dms is approaching the %dms threshold.", snap.LoadTimeMS, limit)
		return withEvidence(r, fmt.Sprintf("load_time_ms=%d", snap.LoadTimeMS), th.EvidenceMaxChars)
	default:
		return pass("Page loaded in %dms (threshold: %dms).", snap.LoadTimeMS, limit)
	}
}

func checkGTMPresent(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	inScripts := false
	for _, s := range snap.Scripts {
		if containsFold(s.Src, "googletagmanager.com") {
			inScripts = true
		}
	}
	inNetwork := false
	for _, r := range snap.NetworkRequests {
		if containsFold(r.URL, "googletagmanager.com") {
			inNetwork = true
		}
	}
	containers := gtmContainerRe.FindAllString(snap.DOMHTML, 3)
	if !inScripts && !inNetwork && len(containers) == 0 {
		return fail("No tag manager detected in scripts, network requests, or page markup.")
	}
	var parts []string
	if inScripts {
		parts = append(parts, "tag script found")
	}
	if inNetwork {
		parts = append(parts, "tag network request detected")
	}
	if len(containers) > 0 {
		parts = append(parts, "container ID(s): "+strings.Join(dedupe(containers), ", "))
	}
	return pass("Tag manager detected. %s.", strings.Join(parts, "; "))
}

func dedupe(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func checkImageCompression(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	var oversized []string
	for _, img := range snap.Images {
		if img.NaturalWidth > th.ImageMaxWidthPX {
			oversized = append(oversized, fmt.Sprintf("%s (%dx%dpx)", truncate(img.Src, 80), img.NaturalWidth, img.NaturalHeight))
		}
	}
	if len(oversized) > 0 {
		r := warn("%d image(s) wider than %dpx, likely unoptimised.", len(oversized), th.ImageMaxWidthPX)
		return withEvidence(r, strings.Join(firstN(oversized, 5), "\n"), th.EvidenceMaxChars)
	}
	return pass("All %d images within reasonable dimensions.", len(snap.Images))
}

func checkCodeMinification(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	var css strings.Builder
	for _, m := range styleBlockRe.FindAllStringSubmatch(snap.DOMHTML, -1) {
		css.WriteString(m[1])
	}
	total := css.String()
	if total != "" {
		newlines := strings.Count(total, "\n")
		// more than 5 newlines per 1000 chars reads as unminified
		if float64(newlines)/float64(len(total))*1000 > 5 {
			return warn("Inline CSS (%d chars) appears unminified (%d newlines). Consider minifying.", len(total), newlines)
		}
	}
	return pass("Inline code appears reasonably minified.")
}

func checkServerCompression(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	switch snap.Compression {
	case "br":
		return pass("Brotli compression enabled.")
	case "gzip":
		return pass("Gzip compression enabled. Consider upgrading to Brotli for better compression.")
	default:
		return fail("No gzip or brotli compression detected on the page response. Enable server compression.")
	}
}

func checkFooterLegalLinks(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	required := []struct {
		label    string
		patterns []string
	}{
		{"terms", []string{"terms", "t&c", "terms and conditions", "terms of use", "terms of service"}},
		{"privacy", []string{"privacy", "privacy policy"}},
		{"disclaimer", []string{"disclaimer"}},
	}
	found := map[string]string{}
	var foundOrder, missing []string
	for _, req := range required {
		matched := false
		for _, link := range snap.Links {
			if deadHrefs[link.Href] {
				continue
			}
			for _, p := range req.patterns {
				if containsFold(link.Text, p) || containsFold(link.Href, p) {
					found[req.label] = truncate(link.Href, 80)
					foundOrder = append(foundOrder, req.label)
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if !matched {
			missing = append(missing, req.label)
		}
	}
	if len(missing) > 0 {
		status := warn
		for _, m := range missing {
			if m == "privacy" {
				status = fail
			}
		}
		r := status("Missing footer link(s): %s.", strings.Join(missing, ", "))
		if len(found) > 0 {
			var ev []string
			for _, label := range foundOrder {
				ev = append(ev, label+": "+found[label])
			}
			return withEvidence(r, "Found: "+strings.Join(ev, "; "), th.EvidenceMaxChars)
		}
		return r
	}
	var ev []string
	for _, label := range foundOrder {
		ev = append(ev, label+": "+found[label])
	}
	r := pass("All required legal links found: %s.", strings.Join(foundOrder, ", "))
	return withEvidence(r, strings.Join(ev, "\n"), th.EvidenceMaxChars)
}

func checkCacheHeaders(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	hasCDN := false
	for _, r := range snap.NetworkRequests {
		if len(foundMarkers(r.URL, cdnMarkers)) > 0 {
			hasCDN = true
			break
		}
	}
	var parts []string
	if hasCDN {
		parts = append(parts, "CDN-served assets detected")
	}
	mainURL := strings.TrimRight(snap.FinalURL, "/")
	for _, r := range snap.NetworkRequests {
		if strings.TrimRight(r.URL, "/") == mainURL && r.ResourceType == "document" {
			parts = append(parts, fmt.Sprintf("main document returned status %d", r.Status))
			break
		}
	}
	if hasCDN {
		return pass("CDN detected for static asset delivery. %s.", strings.Join(parts, "; "))
	}
	r := warn("No CDN detected for static assets. Consider using a CDN for improved performance.")
	if len(parts) > 0 {
		return withEvidence(r, strings.Join(parts, "; "), th.EvidenceMaxChars)
	}
	return r
}
