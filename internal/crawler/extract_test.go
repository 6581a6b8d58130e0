package crawler

import (
	"testing"
)

const sampleHTML = `<!DOCTYPE html>
<html>
<head>
	<title>Acme Corp | Summer Offer</title>
	<meta property="og:title" content="Acme Corp - Get Started">
	<script src="https://cdn.example.com/app.min.js"></script>
	<script>window.dataLayer = window.dataLayer || [];</script>
</head>
<body>
	<a href="#lp-pom-form-42">Get Started</a>
	<a href="/privacy" target="_blank">Privacy Policy</a>
	<button onclick="openModal()">Learn More</button>
	<form id="lp-pom-form-42" action="/submit" method="post">
		<label for="fname">First Name</label>
		<input type="text" name="first_name" id="fname" placeholder="First Name" required>
		<input type="email" name="email" id="email" placeholder="Email">
		<select name="state"><option>NSW</option></select>
		<textarea name="message"></textarea>
	</form>
</body>
</html>`

func TestExtractDOM(t *testing.T) {
	dom := extractDOM(sampleHTML)

	if dom.Title != "Acme Corp | Summer Offer" {
		t.Fatalf("title: %q", dom.Title)
	}
	if dom.MetaTitle != "Acme Corp - Get Started" {
		t.Fatalf("meta title: %q", dom.MetaTitle)
	}
}

func TestExtractLinks(t *testing.T) {
	dom := extractDOM(sampleHTML)

	if len(dom.Links) != 3 {
		t.Fatalf("expected 3 links, got %d: %+v", len(dom.Links), dom.Links)
	}
	if dom.Links[0].Href != "#lp-pom-form-42" || dom.Links[0].Text != "Get Started" || dom.Links[0].Tag != "a" {
		t.Fatalf("first link: %+v", dom.Links[0])
	}
	if dom.Links[1].Target != "_blank" {
		t.Fatalf("target lost: %+v", dom.Links[1])
	}
	// buttons with onclick fall back to the handler as href
	if dom.Links[2].Tag != "button" || dom.Links[2].Href != "openModal()" {
		t.Fatalf("button link: %+v", dom.Links[2])
	}
}

func TestExtractForms(t *testing.T) {
	dom := extractDOM(sampleHTML)

	if len(dom.Forms) != 1 {
		t.Fatalf("expected 1 form, got %d", len(dom.Forms))
	}
	form := dom.Forms[0]
	if form.ID != "lp-pom-form-42" || form.Action != "/submit" || form.Method != "post" {
		t.Fatalf("form attributes: %+v", form)
	}
	if len(form.Fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(form.Fields))
	}

	first := form.Fields[0]
	if first.Name != "first_name" || first.Type != "text" || !first.Required {
		t.Fatalf("first field: %+v", first)
	}
	if first.Label != "First Name" {
		t.Fatalf("label[for] not resolved: %+v", first)
	}
	if form.Fields[1].Required {
		t.Fatalf("email should not be required: %+v", form.Fields[1])
	}
	// elements without a type attribute fall back to the tag name
	if form.Fields[2].Type != "select" || form.Fields[3].Type != "textarea" {
		t.Fatalf("tag fallback types: %+v", form.Fields[2:])
	}
}

func TestExtractScripts(t *testing.T) {
	dom := extractDOM(sampleHTML)

	if len(dom.Scripts) != 2 {
		t.Fatalf("expected 2 scripts, got %d", len(dom.Scripts))
	}
	if dom.Scripts[0].Src != "https://cdn.example.com/app.min.js" || dom.Scripts[0].InlineLength != 0 {
		t.Fatalf("external script: %+v", dom.Scripts[0])
	}
	if dom.Scripts[1].Src != "" || dom.Scripts[1].InlineLength == 0 {
		t.Fatalf("inline script: %+v", dom.Scripts[1])
	}
}

func TestExtractDOMInvalidHTML(t *testing.T) {
	// the html parser is forgiving; garbage should still produce a usable
	// zero-ish extract rather than a panic
	dom := extractDOM("<<<not html>>>")
	if dom.Title != "" || len(dom.Forms) != 0 {
		t.Fatalf("unexpected extract: %+v", dom)
	}
}
