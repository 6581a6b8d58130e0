package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/crolabs/lpqa/pkg/models"
)

// domExtract is the static structure parsed out of rendered HTML.
type domExtract struct {
	Title     string
	MetaTitle string
	Links     []models.Link
	Forms     []models.Form
	Scripts   []models.Script
}

// extractDOM parses the rendered page HTML into the structures checks
// consume. Parse errors return a zero extract; checks degrade on empty
// slices.
func extractDOM(html string) domExtract {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return domExtract{}
	}
	return domExtract{
		Title:     strings.TrimSpace(doc.Find("title").First().Text()),
		MetaTitle: extractMetaTitle(doc),
		Links:     extractLinks(doc),
		Forms:     extractForms(doc),
		Scripts:   extractScripts(doc),
	}
}

func extractMetaTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok && og != "" {
		return og
	}
	meta, _ := doc.Find(`meta[name="title"]`).First().Attr("content")
	return meta
}

func extractLinks(doc *goquery.Document) []models.Link {
	var links []models.Link
	doc.Find(`a, [onclick], [role="link"], button`).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" {
			href, _ = sel.Attr("onclick")
		}
		target, _ := sel.Attr("target")
		text := strings.TrimSpace(sel.Text())
		if len(text) > 200 {
			text = text[:200]
		}
		links = append(links, models.Link{
			Href:   href,
			Text:   text,
			Target: target,
			Tag:    goquery.NodeName(sel),
		})
	})
	return links
}

func extractForms(doc *goquery.Document) []models.Form {
	// label[for] lookup across the whole document; unbounce forms keep
	// labels outside the input wrapper
	labels := map[string]string{}
	doc.Find("label[for]").Each(func(_ int, sel *goquery.Selection) {
		if forID, ok := sel.Attr("for"); ok {
			labels[forID] = strings.TrimSpace(sel.Text())
		}
	})

	var forms []models.Form
	doc.Find("form").Each(func(_ int, formSel *goquery.Selection) {
		id, _ := formSel.Attr("id")
		action, _ := formSel.Attr("action")
		method, _ := formSel.Attr("method")
		form := models.Form{ID: id, Action: action, Method: method}

		formSel.Find("input,select,textarea").Each(func(_ int, f *goquery.Selection) {
			name, _ := f.Attr("name")
			fieldID, _ := f.Attr("id")
			placeholder, _ := f.Attr("placeholder")
			value, _ := f.Attr("value")
			typ, _ := f.Attr("type")
			if typ == "" {
				typ = goquery.NodeName(f)
			}
			_, required := f.Attr("required")
			label := labels[fieldID]
			if label == "" {
				label = strings.TrimSpace(f.Closest("label").Text())
			}
			form.Fields = append(form.Fields, models.FormField{
				Name:        name,
				Type:        typ,
				ID:          fieldID,
				Placeholder: placeholder,
				Required:    required,
				Value:       value,
				Label:       label,
			})
		})
		forms = append(forms, form)
	})
	return forms
}

func extractScripts(doc *goquery.Document) []models.Script {
	var scripts []models.Script
	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		s := models.Script{Src: src}
		if src == "" {
			s.InlineLength = len(sel.Text())
		}
		scripts = append(scripts, s)
	})
	return scripts
}
