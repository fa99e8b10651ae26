package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/samber/lo"
)

var pathParam = regexp.MustCompile(`\{([^}]+)\}`)

// ErrDuplicatePathParam reports a route naming the same parameter twice,
// which OpenAPI cannot express.
var ErrDuplicatePathParam = errors.New("duplicate path parameter")

// ValidateAndCleanSpec performs validation and cleanup on the generated OpenAPI spec
func (g *Generator) ValidateAndCleanSpec(spec *OpenAPISpec) error {
	if err := g.validatePaths(spec); err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}
	return nil
}

func (g *Generator) validatePaths(spec *OpenAPISpec) error {
	paths := lo.Keys(spec.Paths)
	sort.Strings(paths)

	for _, path := range paths {
		if err := g.validatePathParameters(path, spec.Paths[path]); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) validatePathParameters(path string, pathItem PathItem) error {
	// Extract parameters from path
	pathParams := pathParam.FindAllStringSubmatch(path, -1)

	seen := make(map[string]bool, len(pathParams))
	for _, param := range pathParams {
		if seen[param[1]] {
			return fmt.Errorf("%w %q in %s", ErrDuplicatePathParam, param[1], path)
		}
		seen[param[1]] = true
	}

	for _, op := range []*Operation{pathItem.Get, pathItem.Post, pathItem.Put, pathItem.Delete} {
		g.validateOperationParameters(op, pathParams)
	}
	return nil
}

func (g *Generator) validateOperationParameters(operation *Operation, pathParams [][]string) {
	if operation == nil {
		return
	}

	// Create a map of expected path parameters
	expectedParams := make(map[string]bool)
	var order []string
	for _, param := range pathParams {
		if len(param) > 1 {
			expectedParams[param[1]] = true
			order = append(order, param[1])
		}
	}

	// Filter operation parameters to only include valid path parameters
	validParams := []Parameter{}
	for _, param := range operation.Parameters {
		if param.In == "path" {
			if expectedParams[param.Name] {
				validParams = append(validParams, param)
			}
		} else {
			// Keep non-path parameters
			validParams = append(validParams, param)
		}
	}

	// Add missing path parameters
	for _, paramName := range order {
		found := false
		for _, param := range validParams {
			if param.In == "path" && param.Name == paramName {
				found = true
				break
			}
		}
		if !found {
			validParams = append(validParams, Parameter{
				Name:     paramName,
				In:       "path",
				Required: true,
				Schema:   Schema{Type: "string"},
			})
		}
	}

	operation.Parameters = validParams
}

// Validate loads spec with kin-openapi and runs its document validation.
// Examples are literal user samples and are not checked against schemas.
func Validate(ctx context.Context, spec *OpenAPISpec) error {
	data, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("failed to encode spec: %w", err)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return fmt.Errorf("failed to load spec: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return fmt.Errorf("invalid spec: %w", err)
	}
	return nil
}
