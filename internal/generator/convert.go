package generator

import (
	"regexp"
	"strings"
)

var colonParam = regexp.MustCompile(`:([a-zA-Z][a-zA-Z0-9_]*)`)

func (g *Generator) convertPathFormat(path string) string {
	// Convert :param to {param}
	converted := colonParam.ReplaceAllString(path, "{$1}")

	// drop any query string declared in the route
	converted, _, _ = strings.Cut(converted, "?")

	// Ensure the path starts with /
	if !strings.HasPrefix(converted, "/") {
		converted = "/" + converted
	}

	return converted
}
