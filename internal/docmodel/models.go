package docmodel

// Verb is the HTTP method of a documented endpoint.
type Verb string

const (
	VerbGet    Verb = "GET"
	VerbPost   Verb = "POST"
	VerbPut    Verb = "PUT"
	VerbDelete Verb = "DELETE"
)

// Verbs lists the recognized verbs.
var Verbs = []Verb{VerbGet, VerbPost, VerbPut, VerbDelete}

// Composite types are the only ones that carry a literal sample payload.
const (
	TypeObject        = "object"
	TypeArray         = "array"
	TypeArrayOfObject = "array(object)"
)

// Document is the assembled model handed to a renderer. Content and
// Navigation reference every section transition at the same entry id.
type Document struct {
	Content    []Block         `json:"content" yaml:"content"`
	Navigation []SectionMarker `json:"navigation" yaml:"navigation"`
	Stats      Stats           `json:"stats" yaml:"stats"`
}

// Block is one element of the content stream. Exactly one field is set.
type Block struct {
	Marker *SectionMarker `json:"marker,omitempty" yaml:"marker,omitempty"`
	Entry  *EndpointEntry `json:"entry,omitempty" yaml:"entry,omitempty"`
}

type SectionMarker struct {
	Section string `json:"section" yaml:"section"`
	ID      int    `json:"id" yaml:"id"`
}

type EndpointEntry struct {
	ID          int          `json:"id" yaml:"id"`
	Class       string       `json:"class" yaml:"class"`
	Method      string       `json:"method" yaml:"method"`
	Verb        Verb         `json:"verb" yaml:"verb"`
	Route       string       `json:"route" yaml:"route"`
	Description string       `json:"description" yaml:"description"`
	Section     string       `json:"section,omitempty" yaml:"section,omitempty"`
	Parameters  []Parameter  `json:"parameters" yaml:"parameters"`
	Returns     ReturnSchema `json:"returns" yaml:"returns"`
	RootSample  *string      `json:"rootSample,omitempty" yaml:"rootSample,omitempty"`
	Samples     []Sample     `json:"samples" yaml:"samples"`
}

type Parameter struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Required    bool   `json:"required" yaml:"required"`
	Description string `json:"description" yaml:"description"`
	Sample      string `json:"sample,omitempty" yaml:"sample,omitempty"`
}

// ReturnSchema is the return-object table of an endpoint. Present is false
// when the endpoint declares no return objects at all, which renders as NA
// rather than as an empty table.
type ReturnSchema struct {
	Present bool          `json:"present" yaml:"present"`
	Fields  []ReturnField `json:"fields,omitempty" yaml:"fields,omitempty"`
}

type ReturnField struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Note        string `json:"note" yaml:"note"`
	Section     string `json:"section" yaml:"section"`
	Link        string `json:"link,omitempty" yaml:"link,omitempty"`
	// OpensSection marks the first field of its section within the endpoint.
	OpensSection bool `json:"opensSection" yaml:"opensSection"`
}

type Sample struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Body        string `json:"body" yaml:"body"`
}

type Stats struct {
	Classes  int `json:"classes" yaml:"classes"`
	Methods  int `json:"methods" yaml:"methods"`
	Entries  int `json:"entries" yaml:"entries"`
	Skipped  int `json:"skipped" yaml:"skipped"`
	Sections int `json:"sections" yaml:"sections"`
}

// Entries returns the endpoint entries of the content stream in order.
func (d *Document) Entries() []*EndpointEntry {
	entries := make([]*EndpointEntry, 0, d.Stats.Entries)
	for _, b := range d.Content {
		if b.Entry != nil {
			entries = append(entries, b.Entry)
		}
	}
	return entries
}
