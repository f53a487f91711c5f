package htmlfixture

import (
	"html"
	"strings"
)

// RootHTML is the landing page with the URL form, marked up like the live site.
const RootHTML = `<html><body>
<form><input type="text" placeholder="Paste the URL here"><button class="rounded-lg" type="button">Download</button></form>
</body></html>`

// ResultsHTML renders a results page. An empty title omits the title element.
func ResultsHTML(title string, labels ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="flex flex-col space-y-4">`)
	if title != "" {
		b.WriteString(`<h1 class="text-xl">` + html.EscapeString(title) + `</h1>`)
	}
	for _, label := range labels {
		b.WriteString(`<button class="bg-white">` + html.EscapeString(label) + `</button>`)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

// DialogHTML renders a subtitle dialog containing text.
func DialogHTML(text string) string {
	return `<html><body><div role="dialog"><textarea>` + html.EscapeString(text) + `</textarea></div></body></html>`
}
