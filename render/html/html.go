// Package html renders redaction outcomes as standalone HTML pages styled
// with Tailwind CSS v4 (CDN). Bodies and notes are rendered as GitHub
// flavored markdown through goldmark with chroma highlighting.
package html

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/sonnes/censor/core"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
)

//go:embed templates/*.html
var content embed.FS

// Renderer renders an outcome to a standalone HTML page.
type Renderer struct {
	md   goldmark.Markdown
	tmpl *template.Template
}

// New creates an HTML Renderer with goldmark configured for GFM and syntax
// highlighting. Raw HTML inside bodies is not passed through.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("dracula"),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false), // inline styles for standalone pages
				),
			),
		),
	)

	tmpl := template.Must(
		template.New("page.html").
			Funcs(funcMap()).
			ParseFS(content, "templates/*.html"),
	)

	return &Renderer{md: md, tmpl: tmpl}
}

// pageData is the template data passed to page.html.
type pageData struct {
	Outcome    *core.Outcome
	Title      string
	BadgeClass string
	Rules      []ruleData
	Removed    []string
	Added      []string
	Before     template.HTML
	After      template.HTML
	Note       template.HTML
}

type ruleData struct {
	Label       string
	Pattern     string
	Flags       string
	Replacement string
	Message     string
}

// Render writes the outcome as a complete HTML page to w.
func (r *Renderer) Render(w io.Writer, o *core.Outcome) error {
	data := pageData{
		Outcome:    o,
		Title:      pageTitle(o),
		BadgeClass: badgeClass(o.Status),
	}

	for _, rule := range o.Fired {
		data.Rules = append(data.Rules, ruleData{
			Label:       rule.Label(),
			Pattern:     rule.Pattern,
			Flags:       rule.Flags(),
			Replacement: rule.Replacement,
			Message:     rule.Message,
		})
	}

	if o.Changed() && o.Before != "" {
		data.Removed, data.Added = core.ChangedLines(o.Before, o.After)
	}

	var err error
	if data.Before, err = r.markdown(o.Before); err != nil {
		return fmt.Errorf("render before: %w", err)
	}
	if o.Changed() {
		if data.After, err = r.markdown(o.After); err != nil {
			return fmt.Errorf("render after: %w", err)
		}
	}
	if data.Note, err = r.markdown(o.Note); err != nil {
		return fmt.Errorf("render note: %w", err)
	}

	return r.tmpl.ExecuteTemplate(w, "page.html", data)
}

func (r *Renderer) markdown(text string) (template.HTML, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("goldmark convert: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func pageTitle(o *core.Outcome) string {
	if o.Event == nil {
		return "censor"
	}
	if o.Event.Item.Title != "" {
		return o.Event.Item.Title
	}
	return o.Event.Slug()
}

func badgeClass(s core.Status) string {
	switch s {
	case core.StatusRedacted:
		return "text-red-700 dark:text-red-400 bg-red-50 dark:bg-red-950"
	case core.StatusUnchanged:
		return "text-emerald-700 dark:text-emerald-400 bg-emerald-50 dark:bg-emerald-950"
	default:
		return "text-slate-600 dark:text-slate-400 bg-slate-100 dark:bg-slate-800"
	}
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"upper": func(s core.Status) string { return strings.ToUpper(string(s)) },
		"plural": func(n int, one, many string) string {
			if n == 1 {
				return one
			}
			return many
		},
	}
}
