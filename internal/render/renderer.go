package render

import (
	"bytes"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/iancoleman/strcase"

	"github.com/apidocgen/apidocgen/internal/docmodel"
)

type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

var (
	ErrUnknownFormat   = errors.New("unknown render format")
	ErrMissingTemplate = errors.New("missing template")
	ErrNoBadge         = errors.New("no badge for http verb")
)

// NotAvailable is rendered in place of a return-object table when an
// endpoint declares no return objects.
const NotAvailable = "NA"

// DefaultBadges maps verbs to the label classes of the builtin layout.
var DefaultBadges = map[docmodel.Verb]string{
	docmodel.VerbPost:   "label-primary",
	docmodel.VerbGet:    "label-success",
	docmodel.VerbPut:    "label-warning",
	docmodel.VerbDelete: "label-danger",
}

func (f Format) extension() (string, error) {
	switch f {
	case FormatHTML:
		return ".html", nil
	case FormatMarkdown:
		return ".md", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// Meta is the document-level data of the layout.
type Meta struct {
	Title   string
	Version string
	Date    time.Time
}

type executor interface {
	Execute(w io.Writer, data interface{}) error
}

type Renderer struct {
	format Format
	set    map[string]executor
	badges map[docmodel.Verb]string
}

type Option func(*Renderer)

// WithBadges replaces the verb to badge mapping.
func WithBadges(badges map[docmodel.Verb]string) Option {
	return func(r *Renderer) {
		r.badges = badges
	}
}

// New parses tpls for format. Every template name must be present.
func New(format Format, tpls Templates, opts ...Option) (*Renderer, error) {
	if _, err := format.extension(); err != nil {
		return nil, err
	}
	if err := tpls.validate(); err != nil {
		return nil, err
	}

	r := &Renderer{
		format: format,
		set:    make(map[string]executor, len(tpls)),
		badges: DefaultBadges,
	}
	for _, opt := range opts {
		opt(r)
	}

	for name, src := range tpls {
		tpl, err := r.parse(name, src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.set[name] = tpl
	}
	return r, nil
}

func (r *Renderer) parse(name, src string) (executor, error) {
	if r.format == FormatHTML {
		funcs := sprig.HtmlFuncMap()
		funcs["anchor"] = Anchor
		return htmltemplate.New(name).Funcs(funcs).Parse(src)
	}
	funcs := sprig.TxtFuncMap()
	funcs["anchor"] = Anchor
	funcs["cell"] = markdownCell
	return texttemplate.New(name).Funcs(funcs).Parse(src)
}

// Anchor is the fragment id slug of a section name.
func Anchor(section string) string {
	slug := strcase.ToKebab(section)
	if slug == "" {
		return "section"
	}
	return slug
}

func markdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}

// fragment marks already rendered output so the html layout does not
// escape it a second time.
func (r *Renderer) fragment(s string) interface{} {
	if r.format == FormatHTML {
		return htmltemplate.HTML(s)
	}
	return s
}

func (r *Renderer) exec(name string, data map[string]interface{}) (string, error) {
	var buf bytes.Buffer
	if err := r.set[name].Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// Render writes the complete document. Nothing is written when any element
// fails to render.
func (r *Renderer) Render(w io.Writer, doc *docmodel.Document, meta Meta) error {
	content := make([]string, 0, len(doc.Content))
	for _, b := range doc.Content {
		var (
			out string
			err error
		)
		if b.Marker != nil {
			out, err = r.exec(TplSectionTitle, markerData(b.Marker))
		} else {
			out, err = r.entry(b.Entry)
		}
		if err != nil {
			return err
		}
		content = append(content, out)
	}

	anchors := make([]string, 0, len(doc.Navigation))
	for i := range doc.Navigation {
		out, err := r.exec(TplAnchor, markerData(&doc.Navigation[i]))
		if err != nil {
			return err
		}
		anchors = append(anchors, out)
	}

	page, err := r.exec(TplLayout, map[string]interface{}{
		"title":       meta.Title,
		"version":     meta.Version,
		"date":        meta.Date.Format("2006-01-02, 15:04:05"),
		"content":     r.fragment(strings.Join(content, "\n")),
		"anchor_menu": r.fragment(strings.Join(anchors, "\n")),
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, page+"\n")
	return err
}

func markerData(m *docmodel.SectionMarker) map[string]interface{} {
	return map[string]interface{}{
		"elt_id":  m.ID,
		"section": m.Section,
	}
}

func (r *Renderer) entry(e *docmodel.EndpointEntry) (string, error) {
	badge, ok := r.badges[e.Verb]
	if !ok {
		return "", fmt.Errorf("%s.%s: %w: %q", e.Class, e.Method, ErrNoBadge, string(e.Verb))
	}

	params, err := r.parameters(e)
	if err != nil {
		return "", err
	}
	returns, err := r.returns(e)
	if err != nil {
		return "", err
	}
	rootSample, err := r.rootSample(e)
	if err != nil {
		return "", err
	}
	samples, err := r.samples(e)
	if err != nil {
		return "", err
	}

	return r.exec(TplContentMain, map[string]interface{}{
		"elt_id":                e.ID,
		"method":                string(e.Verb),
		"badge":                 badge,
		"route":                 e.Route,
		"description":           e.Description,
		"section":               e.Section,
		"parameters":            r.fragment(params),
		"table_object_response": r.fragment(returns),
		"sample_root_object":    r.fragment(rootSample),
		"sample_responses":      r.fragment(samples),
	})
}

func (r *Renderer) parameters(e *docmodel.EndpointEntry) (string, error) {
	if len(e.Parameters) == 0 {
		return "", nil
	}

	rows := make([]string, 0, len(e.Parameters))
	for _, p := range e.Parameters {
		popover := ""
		if p.Sample != "" {
			var err error
			popover, err = r.exec(TplParamPopover, map[string]interface{}{"sample": p.Sample})
			if err != nil {
				return "", err
			}
		}

		nullable := "required"
		if !p.Required {
			nullable = "optional"
		}
		row, err := r.exec(TplParamsRow, map[string]interface{}{
			"name":        p.Name,
			"type":        p.Type,
			"nullable":    nullable,
			"description": p.Description,
			"popover":     r.fragment(popover),
		})
		if err != nil {
			return "", err
		}
		rows = append(rows, row)
	}

	return r.exec(TplParamsTable, map[string]interface{}{
		"elt_id": e.ID,
		"method": string(e.Verb),
		"route":  e.Route,
		"tbody":  r.fragment(strings.Join(rows, "\n")),
	})
}

func (r *Renderer) returns(e *docmodel.EndpointEntry) (string, error) {
	if !e.Returns.Present {
		return NotAvailable, nil
	}

	var body []string
	for _, f := range e.Returns.Fields {
		if f.OpensSection {
			header, err := r.exec(TplReturnsHeader, map[string]interface{}{
				"elt_id":  e.ID,
				"section": f.Section,
			})
			if err != nil {
				return "", err
			}
			body = append(body, header)
		}

		link := ""
		if f.Link != "" {
			var err error
			link, err = r.exec(TplReturnsLink, map[string]interface{}{
				"elt_id": e.ID,
				"link":   f.Link,
			})
			if err != nil {
				return "", err
			}
		}

		row, err := r.exec(TplReturnsRow, map[string]interface{}{
			"elt_id": e.ID,
			"name":   f.Name,
			"type":   f.Type,
			"note":   f.Note,
			"desc":   f.Description,
			"link":   r.fragment(link),
		})
		if err != nil {
			return "", err
		}
		body = append(body, row)
	}

	return r.exec(TplReturnsTable, map[string]interface{}{
		"elt_id":            e.ID,
		"responseTableBody": r.fragment(strings.Join(body, "\n")),
	})
}

func (r *Renderer) rootSample(e *docmodel.EndpointEntry) (string, error) {
	if e.RootSample == nil {
		return "", nil
	}
	return r.exec(TplRootSample, map[string]interface{}{
		"elt_id": e.ID,
		"sample": *e.RootSample,
	})
}

func (r *Renderer) samples(e *docmodel.EndpointEntry) (string, error) {
	out := make([]string, 0, len(e.Samples))
	for _, s := range e.Samples {
		block, err := r.exec(TplSample, map[string]interface{}{
			"elt_id":      e.ID,
			"type":        s.Type,
			"description": s.Description,
			"sample":      s.Body,
		})
		if err != nil {
			return "", err
		}
		out = append(out, block)
	}
	return strings.Join(out, "\n"), nil
}
