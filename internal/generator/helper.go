package generator

import (
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/apidocgen/apidocgen/internal/docmodel"
)

func (g *Generator) generateOperation(entry *docmodel.EndpointEntry, path string) *Operation {
	operation := &Operation{
		Summary:     g.generateSummary(entry),
		Description: entry.Description,
		OperationID: g.generateOperationID(entry),
		Parameters:  []Parameter{},
		Responses:   make(map[string]Response),
	}
	if entry.Section != "" {
		operation.Tags = []string{entry.Section}
	}

	// parameters named in the route are path parameters; the rest go to the
	// query string, or to a json body for verbs that carry one
	body := Schema{Type: "object", Properties: make(map[string]Schema)}
	for _, param := range entry.Parameters {
		schema := g.generateSchemaFromFieldType(param.Type)
		if param.Sample != "" {
			schema.Example = sampleValue(param.Sample)
		}

		in := "query"
		switch {
		case strings.Contains(path, "{"+param.Name+"}"):
			in = "path"
		case entry.Verb == docmodel.VerbPost || entry.Verb == docmodel.VerbPut:
			schema.Description = param.Description
			body.Properties[param.Name] = schema
			if param.Required {
				body.Required = append(body.Required, param.Name)
			}
			continue
		}

		operation.Parameters = append(operation.Parameters, Parameter{
			Name:        param.Name,
			In:          in,
			Required:    param.Required || in == "path",
			Description: param.Description,
			Schema:      schema,
		})
	}

	if len(body.Properties) > 0 {
		operation.RequestBody = &RequestBody{
			Description: "Request body",
			Required:    len(body.Required) > 0,
			Content: map[string]MediaType{
				"application/json": {Schema: body},
			},
		}
	}

	response := Response{Description: "Successful operation"}
	if example, ok := g.responseExample(entry); ok {
		response.Content = map[string]MediaType{
			"application/json": {
				Schema:  Schema{Type: "object"},
				Example: example,
			},
		}
	}
	operation.Responses["200"] = response

	return operation
}

// responseExample prefers the root sample over the first sample response.
func (g *Generator) responseExample(entry *docmodel.EndpointEntry) (interface{}, bool) {
	if entry.RootSample != nil {
		return sampleValue(*entry.RootSample), true
	}
	if len(entry.Samples) > 0 {
		return sampleValue(entry.Samples[0].Body), true
	}
	return nil, false
}

func (g *Generator) generateSchemaFromFieldType(fieldType string) Schema {
	switch strings.ToLower(strings.TrimSpace(fieldType)) {
	case "integer", "int", "int32", "int64", "long":
		return Schema{Type: "integer"}
	case "number", "float", "double", "decimal":
		return Schema{Type: "number"}
	case "boolean", "bool":
		return Schema{Type: "boolean"}
	case "date":
		return Schema{Type: "string", Format: "date"}
	case "datetime", "date-time", "timestamp":
		return Schema{Type: "string", Format: "date-time"}
	case docmodel.TypeObject:
		return Schema{Type: "object"}
	case docmodel.TypeArray:
		return Schema{Type: "array", Items: &Schema{}}
	case docmodel.TypeArrayOfObject:
		return Schema{Type: "array", Items: &Schema{Type: "object"}}
	default:
		return Schema{Type: "string"}
	}
}

func (g *Generator) generateOperationID(entry *docmodel.EndpointEntry) string {
	if entry.Class != "" || entry.Method != "" {
		return strcase.ToLowerCamel(entry.Class + "_" + entry.Method)
	}

	method := strings.ToLower(string(entry.Verb))
	path := g.convertPathFormat(entry.Route)

	// Clean the path for operation ID
	path = strings.ReplaceAll(path, "/", "_")
	path = strings.ReplaceAll(path, "{", "")
	path = strings.ReplaceAll(path, "}", "")
	path = strings.ReplaceAll(path, "-", "_")
	path = strings.TrimPrefix(path, "_")

	return method + "_" + path
}

func (g *Generator) generateSummary(entry *docmodel.EndpointEntry) string {
	if line, _, _ := strings.Cut(entry.Description, "\n"); line != "" {
		return line
	}
	return g.getActionFromMethod(entry.Verb) + " " + g.getResourceFromPath(entry.Route)
}

func (g *Generator) generateTagDescription(tagName string) string {
	return tagName + " endpoints"
}

func (g *Generator) getActionFromMethod(verb docmodel.Verb) string {
	actions := map[docmodel.Verb]string{
		docmodel.VerbGet:    "Get",
		docmodel.VerbPost:   "Create",
		docmodel.VerbPut:    "Update",
		docmodel.VerbDelete: "Delete",
	}

	if action, exists := actions[verb]; exists {
		return action
	}
	return string(verb)
}

func (g *Generator) getResourceFromPath(path string) string {
	parts := strings.Split(path, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" && !strings.HasPrefix(parts[i], ":") && !strings.HasPrefix(parts[i], "{") {
			return strcase.ToCamel(parts[i])
		}
	}
	return "Resource"
}
