package checks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/crolabs/lpqa/internal/config"
	"github.com/crolabs/lpqa/pkg/models"
)

var designerChecks = []Check{
	{ID: "padding_spacing", Name: "Padding & spacing consistency", Category: models.CategoryDesigner, Fn: checkPaddingSpacing},
	{ID: "fonts_correct", Name: "Fonts loaded correctly", Category: models.CategoryDesigner, Fn: checkFontsCorrect},
	{ID: "button_links", Name: "Button links valid", Category: models.CategoryDesigner, Fn: checkButtonLinks},
	{ID: "scroll_animations", Name: "Scroll animations & transitions", Category: models.CategoryDesigner, Fn: checkScrollAnimations},
	{ID: "designer_sticky_cta", Name: "Sticky CTA visible on mobile", Category: models.CategoryDesigner, Fn: checkDesignerStickyCTA},
	{ID: "logo_no_link", Name: "Logo does not link out", Category: models.CategoryDesigner, Fn: checkLogoNoLink},
	{ID: "desktop_mobile_parity", Name: "Desktop/mobile parity", Category: models.CategoryDesigner, Fn: checkDesktopMobileParity},
	{ID: "image_quality", Name: "Image quality (no stretching)", Category: models.CategoryDesigner, Fn: checkImageQuality},
	{ID: "color_contrast", Name: "Colour contrast & mobile font size", Category: models.CategoryDesigner, Fn: checkColorContrast},
	{ID: "responsive_images", Name: "Responsive images", Category: models.CategoryDesigner, Fn: checkResponsiveImages},
	{ID: "visual_hierarchy", Name: "Visual hierarchy & UX flow", Category: models.CategoryDesigner, Fn: checkVisualHierarchy},
}

// animationMarkers identify animation libraries and transition code.
var animationMarkers = []string{
	"animation", "transition", "@keyframes", "animate", "aos", "wow",
	"gsap", "scroll-trigger", "intersection-observer",
}

var logoLinkRe = regexp.MustCompile(`(?is)<a[^>]*href=["']([^"']+)["'][^>]*>.*?(?:logo|brand).*?</a>`)

func checkPaddingSpacing(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	return skip("Padding/spacing validation requires design token comparison. " +
		"Visual review against the approved design recommended.")
}

func checkFontsCorrect(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	custom := customFonts(snap.Fonts)
	if len(custom) == 0 {
		r := fail("Only system/fallback fonts detected. Web fonts may not be loading.")
		return withEvidence(r, "Detected: "+strings.Join(firstN(snap.Fonts, 8), ", "), th.EvidenceMaxChars)
	}
	return pass("Web fonts loaded: %s", strings.Join(firstN(custom, 5), ", "))
}

func checkButtonLinks(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	var broken []string
	for _, l := range snap.Links {
		if deadHrefs[l.Href] {
			broken = append(broken, fmt.Sprintf("%q -> %s", truncate(l.Text, 40), l.Href))
		}
	}
	if len(broken) > 0 {
		r := warn("%d link(s) with empty/placeholder href. Verify these are intentional scroll triggers.", len(broken))
		return withEvidence(r, strings.Join(firstN(broken, 5), "\n"), th.EvidenceMaxChars)
	}
	return pass("All %d links have non-empty href targets.", len(snap.Links))
}

func checkScrollAnimations(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	found := foundMarkers(snap.DOMHTML, animationMarkers)
	if len(found) > 0 {
		return pass("Animation/transition code detected: %s. Visual verification recommended.",
			strings.Join(firstN(found, 4), ", "))
	}
	return warn("No animation libraries or @keyframes detected. If animations are expected, they may be missing.")
}

func checkDesignerStickyCTA(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	sticky := snap.MobileView().StickyElements
	if len(sticky) > 0 {
		return pass("Mobile sticky element(s) found: %d. First: %q", len(sticky), truncate(sticky[0].Text, 60))
	}
	if !snap.HasMobile() {
		return fail("Mobile snapshot unavailable. Expected a sticky CTA bar on mobile.")
	}
	return fail("No sticky/fixed elements on mobile. Expected a sticky CTA bar.")
}

func checkLogoNoLink(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	if m := logoLinkRe.FindStringSubmatch(snap.DOMHTML); m != nil {
		href := m[1]
		if href != "" && href != "#" && href != "/" && href != "javascript:void(0)" {
			return fail("Logo links to: %s. Should not link away from the landing page.", truncate(href, 80))
		}
	}
	return pass("No outbound logo link detected.")
}

func checkDesktopMobileParity(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	mobile := snap.MobileView()
	desktopImages, mobileImages := len(snap.Images), len(mobile.Images)
	desktopForms, mobileForms := len(snap.Forms), len(mobile.Forms)

	var issues []string
	if desktopForms != mobileForms {
		issues = append(issues, fmt.Sprintf("Form count differs: desktop=%d, mobile=%d", desktopForms, mobileForms))
	}
	if delta := desktopImages - mobileImages; delta > th.ImageParityDelta || delta < -th.ImageParityDelta {
		issues = append(issues, fmt.Sprintf("Image count differs significantly: desktop=%d, mobile=%d", desktopImages, mobileImages))
	}
	if len(issues) > 0 {
		r := warn("Structural differences between desktop and mobile.")
		return withEvidence(r, strings.Join(issues, "\n"), th.EvidenceMaxChars)
	}
	return pass("Desktop and mobile structurally consistent (images: %d/%d, forms: %d/%d).",
		desktopImages, mobileImages, desktopForms, mobileForms)
}

func checkImageQuality(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	var stretched []string
	for _, img := range snap.Images {
		if img.NaturalWidth <= 50 || img.Width <= 0 {
			continue
		}
		ratio := float64(img.NaturalWidth) / float64(img.Width)
		if ratio > 1.5 || ratio < 0.5 {
			stretched = append(stretched, fmt.Sprintf("%s - natural:%dpx, displayed:%dpx",
				truncate(img.Src, 60), img.NaturalWidth, img.Width))
		}
	}
	if len(stretched) > 0 {
		r := warn("%d image(s) may be stretched or heavily resized.", len(stretched))
		return withEvidence(r, strings.Join(firstN(stretched, 5), "\n"), th.EvidenceMaxChars)
	}
	return pass("All %d images display at appropriate dimensions.", len(snap.Images))
}

func checkColorContrast(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	return skip("Full WCAG contrast analysis requires pixel-level inspection. " +
		"Recommend running a Lighthouse accessibility audit for automated contrast scoring.")
}

func checkResponsiveImages(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	hasSrcset := strings.Contains(snap.DOMHTML, "srcset")
	hasPicture := containsFold(snap.DOMHTML, "<picture")
	if hasSrcset || hasPicture {
		var found []string
		if hasSrcset {
			found = append(found, "srcset")
		}
		if hasPicture {
			found = append(found, "<picture>")
		}
		return pass("Responsive image handling detected: %s", strings.Join(found, " "))
	}
	return warn("No srcset or <picture> elements found. Images may not be optimised for different screen sizes.")
}

func checkVisualHierarchy(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult {
	return skip("Visual hierarchy assessment requires human review against the approved design comp.")
}
