package docmodel

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"

	"github.com/apidocgen/apidocgen/internal/annotation"
)

var compositeTypes = []string{TypeObject, TypeArray, TypeArrayOfObject}

// IsComposite reports whether typ may carry a literal sample payload.
func IsComposite(typ string) bool {
	return lo.Contains(compositeTypes, strings.ToLower(strings.TrimSpace(typ)))
}

// ParseVerb normalizes an annotated verb to one of Verbs.
func ParseVerb(s string) (Verb, error) {
	v := Verb(strings.ToUpper(strings.TrimSpace(s)))
	if !lo.Contains(Verbs, v) {
		return "", fmt.Errorf("%w: %q", ErrUnknownVerb, s)
	}
	return v, nil
}

// ProjectParameters builds the parameter table. A bag without parameters
// yields an empty table.
func ProjectParameters(bag annotation.Bag) ([]Parameter, error) {
	var result *multierror.Error
	params := []Parameter{}

	for _, a := range bag[annotation.KindParams] {
		name, okName := a.Get("name")
		typ, okType := a.Get("type")
		if !okName {
			result = multierror.Append(result, missingField(annotation.KindParams, "name"))
		}
		if !okType {
			result = multierror.Append(result, missingField(annotation.KindParams, "type"))
		}
		if !okName || !okType {
			continue
		}

		p := Parameter{
			Name:        name,
			Type:        typ,
			Required:    a.Lookup("nullable", "0") != "1",
			Description: a.Lookup("description", ""),
		}
		if IsComposite(typ) {
			p.Sample = a.Lookup("sample", "")
		}
		params = append(params, p)
	}
	return params, result.ErrorOrNil()
}

// ProjectReturnFields builds the return-object table. Section headers open
// once per distinct section value, in first-seen order within the list.
func ProjectReturnFields(bag annotation.Bag) (ReturnSchema, error) {
	instances, ok := bag[annotation.KindReturnObject]
	if !ok {
		return ReturnSchema{Present: false}, nil
	}

	var result *multierror.Error
	schema := ReturnSchema{Present: true, Fields: []ReturnField{}}
	seen := map[string]bool{}

	for _, a := range instances {
		missing := lo.Filter([]string{"name", "type", "desc", "section"}, func(f string, _ int) bool {
			_, ok := a.Get(f)
			return !ok
		})
		for _, f := range missing {
			result = multierror.Append(result, missingField(annotation.KindReturnObject, f))
		}
		if len(missing) > 0 {
			continue
		}

		field := ReturnField{
			Name:        a["name"],
			Type:        a["type"],
			Description: a["desc"],
			Section:     a["section"],
			Note:        a.Lookup("note", ""),
			Link:        a.Lookup("link", ""),
		}
		if !seen[field.Section] {
			seen[field.Section] = true
			field.OpensSection = true
		}
		schema.Fields = append(schema.Fields, field)
	}
	return schema, result.ErrorOrNil()
}

// ProjectRootSample returns the literal JSON example of the top-level return
// object, or nil when none is declared.
func ProjectRootSample(bag annotation.Bag) (*string, error) {
	a, ok := bag.First(annotation.KindReturnRootSample)
	if !ok {
		return nil, nil
	}
	sample, ok := a.Get("sample")
	if !ok {
		return nil, missingField(annotation.KindReturnRootSample, "sample")
	}
	return &sample, nil
}

// ProjectSamples keeps the sample responses of composite type that carry a
// literal payload. Scalar typed samples are dropped.
func ProjectSamples(bag annotation.Bag) ([]Sample, error) {
	var result *multierror.Error
	samples := []Sample{}

	for _, a := range bag[annotation.KindReturn] {
		typ, ok := a.Get("type")
		if !ok {
			result = multierror.Append(result, missingField(annotation.KindReturn, "type"))
			continue
		}
		body := a.Lookup("sample", "")
		if !IsComposite(typ) || body == "" {
			continue
		}
		samples = append(samples, Sample{
			Type:        typ,
			Description: a.Lookup("description", ""),
			Body:        body,
		})
	}
	return samples, result.ErrorOrNil()
}

// projectEntry builds the entry of one method without its id. Every
// problem of the bag is reported, not only the first.
func projectEntry(class, method string, bag annotation.Bag) (*EndpointEntry, error) {
	var result *multierror.Error
	entry := &EndpointEntry{Class: class, Method: method}

	if a, ok := bag.First(annotation.KindRoute); ok && a.Has("name") {
		entry.Route = a["name"]
	} else {
		result = multierror.Append(result, missingField(annotation.KindRoute, "name"))
	}

	if a, ok := bag.First(annotation.KindMethod); ok && a.Has("type") {
		verb, err := ParseVerb(a["type"])
		if err != nil {
			result = multierror.Append(result, &FieldError{
				Kind:  annotation.KindMethod,
				Field: "type",
				Value: a["type"],
				Err:   ErrUnknownVerb,
			})
		}
		entry.Verb = verb
	} else {
		result = multierror.Append(result, missingField(annotation.KindMethod, "type"))
	}

	if a, ok := bag.First(annotation.KindDescription); ok && a.Has("description") {
		entry.Description = a["description"]
	} else {
		result = multierror.Append(result, missingField(annotation.KindDescription, "description"))
	}

	var err error
	if entry.Parameters, err = ProjectParameters(bag); err != nil {
		result = multierror.Append(result, err)
	}
	if entry.Returns, err = ProjectReturnFields(bag); err != nil {
		result = multierror.Append(result, err)
	}
	if entry.RootSample, err = ProjectRootSample(bag); err != nil {
		result = multierror.Append(result, err)
	}
	if entry.Samples, err = ProjectSamples(bag); err != nil {
		result = multierror.Append(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, locate(err, class, method)
	}
	return entry, nil
}

// locate stamps class and method onto the field errors of err.
func locate(err error, class, method string) error {
	merr, ok := err.(*multierror.Error)
	if !ok {
		return err
	}
	for _, e := range merr.Errors {
		if fe, ok := e.(*FieldError); ok {
			fe.Class, fe.Method = class, method
		}
	}
	return merr
}
