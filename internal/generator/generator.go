package generator

import (
	"encoding/json"
	"fmt"

	"github.com/iancoleman/strcase"
	"github.com/samber/lo"

	"github.com/apidocgen/apidocgen/internal/docmodel"
)

func New(config Config) *Generator {
	return &Generator{config: config}
}

// Generate exports an assembled document as an OpenAPI 3 description. Each
// endpoint entry becomes one operation; sections become tags.
func (g *Generator) Generate(doc *docmodel.Document) (*OpenAPISpec, error) {
	spec := &OpenAPISpec{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:       g.config.Title,
			Description: g.config.Description,
			Version:     g.config.Version,
		},
		Paths: make(map[string]PathItem),
		Components: Components{
			Schemas: make(map[string]Schema),
		},
	}
	if g.config.ServerURL != "" {
		spec.Servers = []Server{{URL: g.config.ServerURL}}
	}

	processedPaths := make(map[string]bool)
	usedIDs := make(map[string]int)
	var tags []string

	for _, entry := range doc.Entries() {
		openAPIPath := g.convertPathFormat(entry.Route)

		// first declaration of a route wins
		pathKey := string(entry.Verb) + ":" + openAPIPath
		if processedPaths[pathKey] {
			continue
		}
		processedPaths[pathKey] = true

		operation := g.generateOperation(entry, openAPIPath)
		operation.OperationID = uniqueID(usedIDs, operation.OperationID)

		if entry.Returns.Present && len(entry.Returns.Fields) > 0 {
			name := strcase.ToCamel(entry.Class + "_" + entry.Method + "_response")
			spec.Components.Schemas[name] = g.generateSchemaFromReturns(entry.Returns)
			resp := operation.Responses["200"]
			if resp.Content == nil {
				resp.Content = make(map[string]MediaType)
			}
			media := resp.Content["application/json"]
			media.Schema = Schema{Ref: "#/components/schemas/" + name}
			resp.Content["application/json"] = media
			operation.Responses["200"] = resp
		}

		if entry.Section != "" {
			tags = append(tags, entry.Section)
		}

		pathItem := spec.Paths[openAPIPath]
		switch entry.Verb {
		case docmodel.VerbGet:
			pathItem.Get = operation
		case docmodel.VerbPost:
			pathItem.Post = operation
		case docmodel.VerbPut:
			pathItem.Put = operation
		case docmodel.VerbDelete:
			pathItem.Delete = operation
		default:
			return nil, fmt.Errorf("%w: %q", docmodel.ErrUnknownVerb, string(entry.Verb))
		}
		spec.Paths[openAPIPath] = pathItem
	}

	for _, tag := range lo.Uniq(tags) {
		spec.Tags = append(spec.Tags, Tag{
			Name:        tag,
			Description: g.generateTagDescription(tag),
		})
	}

	if err := g.ValidateAndCleanSpec(spec); err != nil {
		return nil, err
	}
	return spec, nil
}

// generateSchemaFromReturns nests the fields of each return section under a
// property named after the section, so equal field names in different
// sections stay apart.
func (g *Generator) generateSchemaFromReturns(returns docmodel.ReturnSchema) Schema {
	schema := Schema{
		Type:       "object",
		Properties: make(map[string]Schema),
	}
	for _, field := range returns.Fields {
		prop := g.generateSchemaFromFieldType(field.Type)
		prop.Description = field.Description
		if field.Note != "" {
			prop.Description += " (" + field.Note + ")"
		}

		section, ok := schema.Properties[field.Section]
		if !ok {
			section = Schema{Type: "object", Properties: make(map[string]Schema)}
		}
		section.Properties[field.Name] = prop
		schema.Properties[field.Section] = section
	}
	return schema
}

// sampleValue decodes a literal sample as JSON, keeping the raw text when
// it is not valid JSON.
func sampleValue(raw string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

func uniqueID(used map[string]int, id string) string {
	n := used[id]
	used[id] = n + 1
	if n == 0 {
		return id
	}
	return fmt.Sprintf("%s%d", id, n+1)
}
