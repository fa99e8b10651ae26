package analyzer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/apidocgen/apidocgen/internal/annotation"
)

// parseAnnotations reads every annotation of a doc comment. An annotation
// starts a line with @Kind( and may continue over several lines until its
// closing parenthesis:
//
//	@ApiParams(name="id", type="integer", nullable=false, description="User id")
//	@ApiReturnRootSample(sample="{
//	    \"id\": 1
//	}")
//
// startLine is the file line of the comment, used in error positions.
func parseAnnotations(text string, startLine int) (annotation.Bag, error) {
	bag := annotation.Bag{}
	s := &commentScanner{text: text, startLine: startLine}

	for !s.eof() {
		s.skipInlineSpace()
		if s.peek() != '@' || !s.annotationAhead() {
			s.skipLine()
			continue
		}
		s.pos++

		kind := s.ident()
		fields, err := s.arguments()
		if err != nil {
			return nil, err
		}
		bag[kind] = append(bag[kind], fields)
		s.skipLine()
	}
	return bag, nil
}

type commentScanner struct {
	text      string
	pos       int
	startLine int
}

func (s *commentScanner) eof() bool {
	return s.pos >= len(s.text)
}

func (s *commentScanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.text[s.pos]
}

func (s *commentScanner) line() int {
	return s.startLine + strings.Count(s.text[:s.pos], "\n")
}

func (s *commentScanner) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %s", s.line(), fmt.Sprintf(format, args...))
}

// annotationAhead reports whether the text at pos reads @Ident(.
func (s *commentScanner) annotationAhead() bool {
	rest := s.text[s.pos+1:]
	i := 0
	for i < len(rest) && isIdentByte(rest[i]) {
		i++
	}
	return i > 0 && i < len(rest) && rest[i] == '(' && unicode.IsLetter(rune(rest[0]))
}

func (s *commentScanner) skipInlineSpace() {
	for !s.eof() && (s.peek() == ' ' || s.peek() == '\t') {
		s.pos++
	}
}

func (s *commentScanner) skipSpace() {
	for !s.eof() && unicode.IsSpace(rune(s.peek())) {
		s.pos++
	}
}

func (s *commentScanner) skipLine() {
	for !s.eof() && s.peek() != '\n' {
		s.pos++
	}
	if !s.eof() {
		s.pos++
	}
}

func (s *commentScanner) ident() string {
	start := s.pos
	for !s.eof() && isIdentByte(s.peek()) {
		s.pos++
	}
	return s.text[start:s.pos]
}

// arguments parses (key=value, ...) starting at the opening parenthesis.
func (s *commentScanner) arguments() (annotation.Annotation, error) {
	fields := annotation.Annotation{}
	s.pos++ // (

	for {
		s.skipSpace()
		if s.eof() {
			return nil, s.errorf("unterminated annotation")
		}
		if s.peek() == ')' {
			s.pos++
			return fields, nil
		}

		key := s.ident()
		if key == "" {
			return nil, s.errorf("expected a field name, got %q", s.peek())
		}
		s.skipSpace()
		if s.peek() != '=' {
			return nil, s.errorf("expected '=' after field %q", key)
		}
		s.pos++
		s.skipSpace()

		value, err := s.value()
		if err != nil {
			return nil, err
		}
		fields[key] = value

		s.skipSpace()
		switch s.peek() {
		case ',':
			s.pos++
		case ')':
		default:
			if s.eof() {
				return nil, s.errorf("unterminated annotation")
			}
			return nil, s.errorf("expected ',' or ')' after field %q", key)
		}
	}
}

func (s *commentScanner) value() (string, error) {
	if q := s.peek(); q == '"' || q == '\'' {
		return s.quoted(q)
	}

	start := s.pos
	for !s.eof() && s.peek() != ',' && s.peek() != ')' {
		s.pos++
	}
	raw := strings.TrimSpace(s.text[start:s.pos])
	switch strings.ToLower(raw) {
	case "true":
		return annotation.NormalizeBool(true), nil
	case "false":
		return annotation.NormalizeBool(false), nil
	}
	return raw, nil
}

func (s *commentScanner) quoted(q byte) (string, error) {
	line := s.line()
	s.pos++

	var b strings.Builder
	for !s.eof() {
		c := s.peek()
		switch {
		case c == '\\' && s.pos+1 < len(s.text) && (s.text[s.pos+1] == q || s.text[s.pos+1] == '\\'):
			b.WriteByte(s.text[s.pos+1])
			s.pos += 2
		case c == q:
			s.pos++
			return b.String(), nil
		default:
			b.WriteByte(c)
			s.pos++
		}
	}
	return "", fmt.Errorf("line %d: unterminated string", line)
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '-' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
