package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Field is a JSON value that remembers whether its key was present.
// An explicit null sets Set and Null.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

// Ptr returns nil when the field is absent, null or a string that is blank
// after trimming, and a pointer to the value otherwise.
func (f Field[T]) Ptr() *T {
	if !f.Set || f.Null {
		return nil
	}
	if s, ok := any(f.Value).(string); ok && strings.TrimSpace(s) == "" {
		return nil
	}
	v := f.Value
	return &v
}

// Payload is the raw create/update body. Technologies is kept raw so the
// service can tell a proper array of strings apart from any other shape.
type Payload struct {
	Title        Field[string]   `json:"title"`
	Description  Field[string]   `json:"description"`
	ImageURL     Field[string]   `json:"imageUrl"`
	ProjectURL   Field[string]   `json:"projectUrl"`
	GithubURL    Field[string]   `json:"githubUrl"`
	Technologies json.RawMessage `json:"technologies"`
}

// TechnologyList decodes Technologies. ok is false unless the value is a
// JSON array whose elements are all strings.
func (p *Payload) TechnologyList() (techs []string, ok bool) {
	raw := bytes.TrimSpace(p.Technologies)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}

	techs = make([]string, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '"' {
			return nil, false
		}
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			return nil, false
		}
		techs = append(techs, s)
	}
	return techs, true
}
