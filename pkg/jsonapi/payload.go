package jsonapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

const (
	NULL     = iota
	SINGULAR = iota
	PLURAL   = iota
)

var jsonNull = []byte("null")

type Links struct {
	Self    string `json:"self,omitempty"`
	Related string `json:"related,omitempty"`
}

type PaginationLinks struct {
	First    string `json:"first,omitempty"`
	Last     string `json:"last,omitempty"`
	Previous string `json:"prev,omitempty"`
	Next     string `json:"next,omitempty"`
}

/*
Document
A decoded {json:api} response body. 'Data' holds the primary resource(s),
'Included' the related resources that relationships point at.
*/
type Document struct {
	Data     PrimaryData            `json:"data"`
	Included []*ResourceObject      `json:"included,omitempty"`
	Links    *PaginationLinks       `json:"links,omitempty"`
	Meta     map[string]interface{} `json:"meta,omitempty"`
	JSONAPI  map[string]interface{} `json:"jsonapi,omitempty"`
}

// Resources returns the primary data as a slice, regardless of its kind
func (d *Document) Resources() []*ResourceObject {
	switch d.Data.Kind {
	case SINGULAR:
		return []*ResourceObject{d.Data.Singular}
	case PLURAL:
		return d.Data.Plural
	}
	return nil
}

type ResourceObject struct {
	Type          string                   `json:"type"`
	Id            string                   `json:"id,omitempty"`
	Attributes    map[string]interface{}   `json:"attributes,omitempty"`
	Relationships map[string]*Relationship `json:"relationships,omitempty"`
	Links         *Links                   `json:"links,omitempty"`
	Meta          map[string]interface{}   `json:"meta,omitempty"`
}

/*
ResourceIdentifier
The '{type, id}' pair found in relationship linkage. 'Attributes' is never sent
by the server; ResolveDocument fills it from the matching included resource.
*/
type ResourceIdentifier struct {
	Type       string                 `json:"type"`
	Id         string                 `json:"id"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

/*
MarshalJSON
'attributes' is written whenever the identifier was resolved, even when the
included resource had none ('{}'); an unresolved identifier (nil Attributes)
is written as a bare linkage object.
*/
func (ri ResourceIdentifier) MarshalJSON() ([]byte, error) {
	type identifier struct {
		Type       string                  `json:"type"`
		Id         string                  `json:"id"`
		Attributes *map[string]interface{} `json:"attributes,omitempty"`
		Meta       map[string]interface{}  `json:"meta,omitempty"`
	}
	result := identifier{Type: ri.Type, Id: ri.Id, Meta: ri.Meta}
	if ri.Attributes != nil {
		result.Attributes = &ri.Attributes
	}
	return json.Marshal(result)
}

func (ri *ResourceIdentifier) matches(resource *ResourceObject) bool {
	return resource != nil && ri.Type == resource.Type && ri.Id == resource.Id
}

func (ri ResourceIdentifier) String() string {
	return fmt.Sprintf("%s:%s", ri.Type, ri.Id)
}

type Relationship struct {
	Data  RelationshipData       `json:"data"`
	Links *Links                 `json:"links,omitempty"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

// Either a single identifier (to-one), a list (to-many) or nothing
type RelationshipData struct {
	Kind     int
	Singular *ResourceIdentifier
	Plural   []*ResourceIdentifier
}

func One(identifier ResourceIdentifier) RelationshipData {
	return RelationshipData{Kind: SINGULAR, Singular: &identifier}
}

func Many(identifiers ...ResourceIdentifier) RelationshipData {
	result := RelationshipData{
		Kind:   PLURAL,
		Plural: make([]*ResourceIdentifier, 0, len(identifiers)),
	}
	for i := range identifiers {
		result.Plural = append(result.Plural, &identifiers[i])
	}
	return result
}

func (rd RelationshipData) MarshalJSON() ([]byte, error) {
	switch rd.Kind {
	case SINGULAR:
		return json.Marshal(rd.Singular)
	case PLURAL:
		if rd.Plural == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(rd.Plural)
	}
	return jsonNull, nil
}

func (rd *RelationshipData) UnmarshalJSON(body []byte) error {
	kind := kindOf(body)
	*rd = RelationshipData{Kind: kind}
	switch kind {
	case SINGULAR:
		return unmarshal(body, &rd.Singular)
	case PLURAL:
		rd.Plural = make([]*ResourceIdentifier, 0)
		return unmarshal(body, &rd.Plural)
	}
	return nil
}

// Primary data of a document; same shape rules as RelationshipData
type PrimaryData struct {
	Kind     int
	Singular *ResourceObject
	Plural   []*ResourceObject
}

func (pd PrimaryData) MarshalJSON() ([]byte, error) {
	switch pd.Kind {
	case SINGULAR:
		return json.Marshal(pd.Singular)
	case PLURAL:
		if pd.Plural == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(pd.Plural)
	}
	return jsonNull, nil
}

func (pd *PrimaryData) UnmarshalJSON(body []byte) error {
	kind := kindOf(body)
	*pd = PrimaryData{Kind: kind}
	switch kind {
	case SINGULAR:
		return unmarshal(body, &pd.Singular)
	case PLURAL:
		pd.Plural = make([]*ResourceObject, 0)
		return unmarshal(body, &pd.Plural)
	}
	return nil
}

func kindOf(body []byte) int {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return NULL
	}
	if trimmed[0] == '[' {
		return PLURAL
	}
	return SINGULAR
}

// Used to build request bodies

type PayloadSingular struct {
	Data PayloadResource `json:"data"`
}

type PayloadResource struct {
	Type          string                   `json:"type"`
	Id            string                   `json:"id,omitempty"`
	Attributes    map[string]interface{}   `json:"attributes,omitempty"`
	Relationships map[string]*Relationship `json:"relationships,omitempty"`
}

// Like json.Unmarshal, but numbers are kept as json.Number so that integers
// beyond float64 precision come back out unchanged
func unmarshal(body []byte, result interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	err := decoder.Decode(result)
	if err != nil {
		return err
	}
	if decoder.More() {
		return errors.New("invalid character after top-level value")
	}
	return nil
}

func decodeDocument(body []byte) (*Document, error) {
	var document Document
	err := unmarshal(body, &document)
	if err != nil {
		return nil, &DecodeError{Body: body, Err: err}
	}
	return &document, nil
}

// Deep copy of a decoded JSON value so that callers never share maps or
// slices between included resources and the identifiers pointing at them
func copyValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return copyAttributes(v)
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = copyValue(item)
		}
		return result
	default:
		return v
	}
}

func copyAttributes(attributes map[string]interface{}) map[string]interface{} {
	if attributes == nil {
		return nil
	}
	result := make(map[string]interface{}, len(attributes))
	for key, value := range attributes {
		result[key] = copyValue(value)
	}
	return result
}

func jsonEqual(leftBytes, rightBytes []byte) (bool, error) {
	var left interface{}
	err := json.Unmarshal(leftBytes, &left)
	if err != nil {
		return false, err
	}

	var right interface{}
	err = json.Unmarshal(rightBytes, &right)
	if err != nil {
		return false, err
	}

	return reflect.DeepEqual(left, right), nil
}
