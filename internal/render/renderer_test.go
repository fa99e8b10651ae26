package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/apidocgen/apidocgen/internal/docmodel"
)

func testDocument() *docmodel.Document {
	root := `{"id": 1}`
	users := docmodel.SectionMarker{Section: "User Accounts", ID: 0}
	return &docmodel.Document{
		Content: []docmodel.Block{
			{Marker: &users},
			{Entry: &docmodel.EndpointEntry{
				ID:          0,
				Verb:        docmodel.VerbGet,
				Route:       "/users/{id}",
				Description: "Get a <user>",
				Section:     "User Accounts",
				Parameters: []docmodel.Parameter{
					{Name: "id", Type: "integer", Required: true, Description: "User id"},
					{Name: "filter", Type: "object", Sample: `{"a": 1}`},
				},
				Returns: docmodel.ReturnSchema{Present: true, Fields: []docmodel.ReturnField{
					{Name: "id", Type: "integer", Description: "Id", Section: "User", OpensSection: true},
					{Name: "city", Type: "string", Description: "City", Section: "Address", Link: "Address", OpensSection: true},
				}},
				RootSample: &root,
				Samples: []docmodel.Sample{
					{Type: "array", Description: "All users", Body: `[1, 2]`},
				},
			}},
			{Entry: &docmodel.EndpointEntry{
				ID:          1,
				Verb:        docmodel.VerbDelete,
				Route:       "/users/{id}",
				Description: "Delete a user",
				Section:     "User Accounts",
				Parameters:  []docmodel.Parameter{},
				Samples:     []docmodel.Sample{},
			}},
		},
		Navigation: []docmodel.SectionMarker{users},
	}
}

func renderString(t *testing.T, format Format, doc *docmodel.Document, opts ...Option) string {
	t.Helper()

	tpls, err := DefaultTemplates(format)
	require.NoError(t, err)
	r, err := New(format, tpls, opts...)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, doc, Meta{
		Title:   "Test API",
		Version: "1.4",
		Date:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	require.NoError(t, err)
	return buf.String()
}

func TestRender_HTML(t *testing.T) {
	req := require.New(t)
	out := renderString(t, FormatHTML, testDocument())

	req.Contains(out, `<title>Test API</title>`)
	req.Contains(out, `Generated 2026-01-02, 03:04:05 by apidocgen 1.4`)
	req.Contains(out, `<a href="#user-accounts-0">User Accounts</a>`)
	req.Contains(out, `<h2 id="user-accounts-0">User Accounts</h2>`)
	req.Contains(out, `<span class="label label-success">GET</span>`)
	req.Contains(out, `<span class="label label-danger">DELETE</span>`)
	req.Contains(out, `Get a &lt;user&gt;`)
	req.Contains(out, `<form id="form-0"`)
	req.Contains(out, `<td>optional</td>`)
	req.Contains(out, `<td>required</td>`)
	req.Contains(out, `class="popover-sample"`)
	req.Contains(out, `id="address_anchor_0"`)
	req.Contains(out, `<a href="#address_anchor_0">Address</a>`)
	req.Contains(out, `Return JSON root object :`)
	req.Contains(out, `Sample array : All users`)
	req.Contains(out, `No parameters`)

	// the DELETE entry has no return objects
	deletePanel := out[strings.Index(out, `id="endpoint-1"`):]
	req.Contains(deletePanel, "NA")
	req.NotContains(deletePanel, "response-classes")
}

func TestRender_Markdown(t *testing.T) {
	req := require.New(t)
	out := renderString(t, FormatMarkdown, testDocument())

	req.True(strings.HasPrefix(out, "# Test API\n"))
	req.Contains(out, "- [User Accounts](#user-accounts-0)")
	req.Contains(out, "## User Accounts")
	req.Contains(out, "### `GET` /users/{id}")
	req.Contains(out, "| id | integer | required | User id |\n| filter | object (sample: `{\"a\": 1}`) | optional |  |")
	req.Contains(out, "| **User** | | | |")
	req.Contains(out, "| city | string | City (see Address) |  |")
	req.Contains(out, "```json\n{\"id\": 1}\n```")
	req.Contains(out, "_No parameters._")
	req.Contains(out, "**Response classes**\n\nNA")
}

func TestRender_UnknownBadge(t *testing.T) {
	tpls, err := DefaultTemplates(FormatHTML)
	require.NoError(t, err)
	r, err := New(FormatHTML, tpls, WithBadges(map[docmodel.Verb]string{docmodel.VerbGet: "label-success"}))
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, testDocument(), Meta{})
	require.ErrorIs(t, err, ErrNoBadge)
	require.Zero(t, buf.Len(), "nothing is written on failure")
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Format("pdf"), Templates{})
	require.ErrorIs(t, err, ErrUnknownFormat)

	_, err = New(FormatHTML, Templates{TplLayout: "x"})
	require.ErrorIs(t, err, ErrMissingTemplate)

	tpls, err := DefaultTemplates(FormatHTML)
	require.NoError(t, err)
	tpls[TplAnchor] = "{{ .broken"
	_, err = New(FormatHTML, tpls)
	require.Error(t, err)
	require.Contains(t, err.Error(), TplAnchor)
}

func TestTemplates_Override(t *testing.T) {
	req := require.New(t)

	dir := t.TempDir()
	req.NoError(os.WriteFile(filepath.Join(dir, "anchor.md"), []byte("* {{ .section }} @ {{ .elt_id }}"), 0o644))
	req.NoError(os.WriteFile(filepath.Join(dir, "unrelated.md"), []byte("ignored"), 0o644))

	tpls, err := DefaultTemplates(FormatMarkdown)
	req.NoError(err)
	req.NoError(tpls.Override(dir, FormatMarkdown))

	r, err := New(FormatMarkdown, tpls)
	req.NoError(err)

	var buf bytes.Buffer
	req.NoError(r.Render(&buf, testDocument(), Meta{Title: "x"}))
	req.Contains(buf.String(), "* User Accounts @ 0")
}

func TestAnchor(t *testing.T) {
	require.Equal(t, "user-accounts", Anchor("User Accounts"))
	require.Equal(t, "section", Anchor(""))
}
