// Package render converts stored question content (plain text with legacy
// formatting tags and $-delimited math) into display-safe HTML.
package render

import (
	"html"
	"regexp"
	"strings"
)

// Context selects the presentational scale for rendered content.
type Context string

const (
	ContextQuestion Context = "question"
	ContextOption   Context = "option"
	ContextText     Context = "text"
)

// Class returns the CSS class the UI applies for this context. Question
// text renders larger and bolder than option text.
func (c Context) Class() string {
	switch c {
	case ContextQuestion:
		return "content content-question"
	case ContextOption:
		return "content content-option"
	default:
		return "content content-text"
	}
}

// Rendered is display-safe HTML plus the context class to apply.
type Rendered struct {
	HTML  string `json:"html"`
	Class string `json:"class"`
}

// Renderer runs the content pipeline. The zero value is not usable; use
// New.
type Renderer struct {
	typesetter Typesetter
}

// New creates a renderer. A nil typesetter falls back to the built-in span
// typesetter.
func New(typesetter Typesetter) *Renderer {
	if typesetter == nil {
		typesetter = SpanTypesetter{}
	}
	return &Renderer{typesetter: typesetter}
}

var (
	reDisplayMath = regexp.MustCompile(`(?s)\$\$(.*?)\$\$`)
	reInlineMath  = regexp.MustCompile(`(?s)\$(.*?)\$`)

	reSuperscript = regexp.MustCompile(`\^(\d+)`)
	reSubscript   = regexp.MustCompile(`_(\d+)`)
	reBold        = regexp.MustCompile(`\*\*(.*?)\*\*`)
	reItalic      = regexp.MustCompile(`\*(.*?)\*`)

	reBoldOpen    = regexp.MustCompile(`(?i)<b>`)
	reBoldClose   = regexp.MustCompile(`(?i)</b>`)
	reItalicOpen  = regexp.MustCompile(`(?i)<i>`)
	reItalicClose = regexp.MustCompile(`(?i)</i>`)
	reLineBreak   = regexp.MustCompile(`(?i)<br\s*/?>`)
	reParaOpen    = regexp.MustCompile(`(?i)<p>`)
	reParaClose   = regexp.MustCompile(`(?i)</p>`)

	reDoubleBreak = regexp.MustCompile(`<br>\s*<br>\s*`)
	reManyBreaks  = regexp.MustCompile(`(<br>\s*){3,}`)
	reLeadBreak   = regexp.MustCompile(`^\s*<br>\s*`)
	reTrailBreak  = regexp.MustCompile(`\s*<br>\s*$`)

	reScriptBlock = regexp.MustCompile(`(?is)<script.*?</script>`)
	reStyleBlock  = regexp.MustCompile(`(?is)<style.*?</style>`)
	reScriptTag   = regexp.MustCompile(`(?i)</?script[^>]*>`)
	reStyleTag    = regexp.MustCompile(`(?i)</?style[^>]*>`)
	reJSURI       = regexp.MustCompile(`(?i)javascript:`)
	reEventAttr   = regexp.MustCompile(`(?i)on\w+\s*=`)
)

// Render runs the full pipeline for one content string. It never panics;
// any internal failure degrades to an entity-decoded, script-stripped
// version of the original input.
func (r *Renderer) Render(content string, ctx Context) Rendered {
	return Rendered{HTML: r.renderHTML(content), Class: ctx.Class()}
}

// RenderHTML is Render without the context wrapper, for callers that embed
// the markup themselves.
func (r *Renderer) RenderHTML(content string) string {
	return r.renderHTML(content)
}

func (r *Renderer) renderHTML(content string) (out string) {
	if content == "" {
		return ""
	}

	// The pipeline must not throw under any input; fall back to a decoded
	// and stripped copy of the original if it does.
	defer func() {
		if rec := recover(); rec != nil {
			out = Fallback(content)
		}
	}()

	// 1. Decode known HTML entities.
	clean := decodeEntities(content)

	// 2. Normalize line breaks.
	clean = strings.ReplaceAll(clean, "\r\n", "\n")
	clean = strings.ReplaceAll(clean, "\n", "<br>")

	// 3. Math, display mode before inline so $$ pairs are not split.
	clean = reDisplayMath.ReplaceAllStringFunc(clean, func(m string) string {
		return r.typesetMatch(reDisplayMath, m, true)
	})
	clean = reInlineMath.ReplaceAllStringFunc(clean, func(m string) string {
		return r.typesetMatch(reInlineMath, m, false)
	})

	// 4. Shorthand emphasis, only when the content carries no canonical
	// tags already (legacy records mix both conventions).
	if !strings.Contains(clean, "<strong>") && !strings.Contains(clean, "<em>") && !strings.Contains(clean, "<u>") {
		clean = reSuperscript.ReplaceAllString(clean, "<sup>$1</sup>")
		clean = reSubscript.ReplaceAllString(clean, "<sub>$1</sub>")
		clean = reBold.ReplaceAllString(clean, "<strong>$1</strong>")
		clean = reItalic.ReplaceAllString(clean, "<em>$1</em>")
	}

	// Canonicalize legacy tags.
	clean = reBoldOpen.ReplaceAllString(clean, "<strong>")
	clean = reBoldClose.ReplaceAllString(clean, "</strong>")
	clean = reItalicOpen.ReplaceAllString(clean, "<em>")
	clean = reItalicClose.ReplaceAllString(clean, "</em>")
	clean = reLineBreak.ReplaceAllString(clean, "<br>")
	clean = reParaOpen.ReplaceAllString(clean, "")
	clean = reParaClose.ReplaceAllString(clean, "<br>")

	// Collapse runs of breaks and trim the edges.
	clean = reDoubleBreak.ReplaceAllString(clean, "<br><br>")
	clean = reManyBreaks.ReplaceAllString(clean, "<br><br>")
	clean = reLeadBreak.ReplaceAllString(clean, "")
	clean = reTrailBreak.ReplaceAllString(clean, "")

	// 5. Sanitize. This step runs last so nothing can reintroduce what it
	// removes.
	return sanitize(clean)
}

// typesetMatch renders one delimited expression, degrading a malformed one
// to a visible error span instead of failing the whole content.
func (r *Renderer) typesetMatch(re *regexp.Regexp, match string, display bool) string {
	expr := re.FindStringSubmatch(match)[1]
	rendered, err := r.typesetter.Typeset(expr, display)
	if err != nil {
		return `<span class="math-error">[Math Error: ` + html.EscapeString(strings.TrimSpace(expr)) + `]</span>`
	}
	return rendered
}

// Fallback is the guaranteed-safe rendition: entities decoded, legacy tags
// canonicalized, scripts stripped.
func Fallback(content string) string {
	clean := decodeEntities(content)
	clean = reBoldOpen.ReplaceAllString(clean, "<strong>")
	clean = reBoldClose.ReplaceAllString(clean, "</strong>")
	clean = reItalicOpen.ReplaceAllString(clean, "<em>")
	clean = reItalicClose.ReplaceAllString(clean, "</em>")
	clean = reLineBreak.ReplaceAllString(clean, "<br>")
	return sanitize(clean)
}

// decodeEntities resolves the entity escapes found in stored content.
func decodeEntities(s string) string {
	replacer := strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
	return replacer.Replace(s)
}

// sanitize strips script/style blocks, inline event handlers, and
// javascript: URIs.
func sanitize(s string) string {
	s = reScriptBlock.ReplaceAllString(s, "")
	s = reStyleBlock.ReplaceAllString(s, "")
	// Unpaired tags survive the block pass; strip them on their own.
	s = reScriptTag.ReplaceAllString(s, "")
	s = reStyleTag.ReplaceAllString(s, "")
	s = reJSURI.ReplaceAllString(s, "")
	s = reEventAttr.ReplaceAllString(s, "")
	return s
}
