package analyzer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apidocgen/apidocgen/internal/annotation"
)

const usersSource = `package handlers

type UserController struct{}

// List returns every user.
//
// @ApiDescription(section="Users", description="List users")
// @ApiMethod(type="get")
// @ApiRoute(name="/users")
// @ApiParams(name="page", type="integer", nullable=true, description="Page")
func (c *UserController) List() {}

// Show returns one user.
//
// @ApiDescription(section="Users", description="Show a user")
// @ApiMethod(type="get")
// @ApiRoute(name="/users/:id")
// @ApiReturnRootSample(sample="{
//   \"id\": 1
// }")
func (c UserController) Show() {}

func (c *UserController) helper() {}

func unannotated() {}
`

const adminSource = `package handlers

type AdminController struct{}

// @ApiDescription(section="Admin", description="Purge caches")
// @ApiMethod(type="delete")
// @ApiRoute(name="/admin/cache")
func (a *AdminController) Purge() {}

type internalType struct{}

func (i *internalType) Skip() {}
`

func writeSource(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestAnalyze(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	writeSource(t, dir, "a_users.go", usersSource)
	writeSource(t, dir, "b/admin.go", adminSource)
	writeSource(t, dir, "a_users_test.go", "package handlers\n\n// @ApiMethod(type=\"get\")\nfunc (c *UserController) Ignored() {}\n")
	writeSource(t, dir, "vendor/x/x.go", adminSource)
	writeSource(t, dir, "_build/x.go", adminSource)

	store, err := New(dir, nil).Analyze()
	req.NoError(err)
	req.Len(store.Classes, 2)

	users := store.Classes[0]
	req.Equal("UserController", users.Name)
	req.Equal([]string{"List", "Show", "helper"}, methodNames(users))
	req.True(users.Methods[2].Bag.Empty())

	list := users.Methods[0].Bag
	desc, ok := list.First(annotation.KindDescription)
	req.True(ok)
	req.Equal("Users", desc["section"])
	req.Equal("List users", desc["description"])
	param, _ := list.First(annotation.KindParams)
	req.Equal("1", param["nullable"])

	root, ok := users.Methods[1].Bag.First(annotation.KindReturnRootSample)
	req.True(ok)
	req.Equal("{\n  \"id\": 1\n}", root["sample"])

	admin := store.Classes[1]
	req.Equal("AdminController", admin.Name)
	req.Equal([]string{"Purge"}, methodNames(admin))
}

func TestAnalyze_Errors(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "broken.go", "package handlers\n\nfunc {")
	_, err := New(dir, nil).Analyze()
	require.ErrorContains(t, err, "failed to parse")

	dir = t.TempDir()
	writeSource(t, dir, "bad.go", "package handlers\n\ntype C struct{}\n\n// @ApiMethod(type=\"get)\nfunc (c *C) M() {}\n")
	_, err = New(dir, nil).Analyze()
	require.ErrorContains(t, err, "line 5: unterminated string")

	_, err = New(filepath.Join(t.TempDir(), "missing"), nil).Analyze()
	require.ErrorContains(t, err, "failed to list source files")
}

func TestAnalyze_CommentTextIsExact(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	writeSource(t, dir, "blank.go", `package handlers

type C struct{}

//
// @ApiReturnRootSample(sample="{
//   \"a\": 1,
//
//
//   \"b\": 2
// }")
func (c *C) M() {}

// Intro.
//
//
// @ApiMethod(type="get)
func (c *C) N() {}
`)

	_, err := New(dir, nil).Analyze()
	req.ErrorContains(err, "line 17: unterminated string")

	// drop the broken method and read the sample back
	src, err := os.ReadFile(filepath.Join(dir, "blank.go"))
	req.NoError(err)
	cut := strings.Index(string(src), "// Intro.")
	req.NoError(os.WriteFile(filepath.Join(dir, "blank.go"), src[:cut], 0o644))

	store, err := New(dir, nil).Analyze()
	req.NoError(err)
	root, ok := store.Classes[0].Methods[0].Bag.First(annotation.KindReturnRootSample)
	req.True(ok)
	req.Equal("{\n  \"a\": 1,\n\n\n  \"b\": 2\n}", root["sample"])
}

func TestParseAnnotations(t *testing.T) {
	req := require.New(t)

	text := "Intro text mentioning @someone.\n" +
		"@ApiParams(name=\"id\", type=integer, nullable=FALSE)\n" +
		"@ApiParams(\n  name='body',\n  type=\"object\",\n  sample=\"{\\\"a\\\": \\\"b\\\\c\\\"}\"\n)\n" +
		"@ApiReturnObject()\n"

	bag, err := parseAnnotations(text, 1)
	req.NoError(err)
	req.Len(bag[annotation.KindParams], 2)
	req.Equal(annotation.Annotation{"name": "id", "type": "integer", "nullable": "0"}, bag[annotation.KindParams][0])
	req.Equal(annotation.Annotation{"name": "body", "type": "object", "sample": `{"a": "b\c"}`}, bag[annotation.KindParams][1])
	req.Equal([]annotation.Annotation{{}}, bag[annotation.KindReturnObject])
	req.Len(bag, 2)
}

func TestParseAnnotations_Errors(t *testing.T) {
	cases := map[string]string{
		"intro\n@ApiMethod(type=\"get)\n": "line 11: unterminated string",
		"@ApiMethod(type)\n":              "line 10: expected '=' after field \"type\"",
		"@ApiMethod(=\"get\")\n":          "line 10: expected a field name",
		"@ApiMethod(type=\"get\" x)\n":    "line 10: expected ',' or ')'",
		"@ApiRoute(name=\"/a\",\n":        "unterminated annotation",
	}
	for text, want := range cases {
		_, err := parseAnnotations(text, 10)
		require.ErrorContains(t, err, want, text)
	}
}

func TestReceiverTypeName(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "generic.go", `package handlers

type Repo[T any] struct{}

// @ApiMethod(type="get")
func (r *Repo[T]) Find() {}

// @ApiMethod(type="post")
func Create() {}
`)
	store, err := New(dir, nil).Analyze()
	require.NoError(t, err)
	require.Equal(t, "Repo", store.Classes[0].Name)
	require.Equal(t, "handlers", store.Classes[1].Name)
	require.Equal(t, []string{"Create"}, methodNames(store.Classes[1]))
}

func methodNames(c annotation.Class) []string {
	names := make([]string, 0, len(c.Methods))
	for _, m := range c.Methods {
		names = append(names, m.Name)
	}
	return names
}
