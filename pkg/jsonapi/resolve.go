package jsonapi

import (
	"sort"
)

// Result of LocateIncluded. Only one of the fields is meaningful, depending
// on the kind of the reference that was looked up.
type Located struct {
	Singular *ResourceObject
	Plural   []*ResourceObject
}

/*
LocateIncluded
Finds the included resources a relationship reference points at.

  - For a to-many reference, every included resource matching any of the
    identifiers is returned, in the order they appear in 'included'. An empty
    reference yields an empty (non-nil) slice. Duplicate included entries each
    match independently.
  - For a to-one reference, the first matching included resource is returned,
    or nil if there is none.
  - For a null reference, the result is empty.
*/
func LocateIncluded(reference RelationshipData, included []*ResourceObject) Located {
	var result Located
	switch reference.Kind {
	case PLURAL:
		result.Plural = make([]*ResourceObject, 0, len(reference.Plural))
		if len(reference.Plural) == 0 {
			return result
		}
		for _, item := range included {
			for _, identifier := range reference.Plural {
				if identifier != nil && identifier.matches(item) {
					result.Plural = append(result.Plural, item)
					break
				}
			}
		}
	case SINGULAR:
		result.Singular = findIncluded(reference.Singular, included)
	}
	return result
}

func findIncluded(
	identifier *ResourceIdentifier, included []*ResourceObject,
) *ResourceObject {
	if identifier == nil {
		return nil
	}
	for _, item := range included {
		if identifier.matches(item) {
			return item
		}
	}
	return nil
}

/*
AttachAttributes
Copies the attributes of the matching included resource onto every
relationship identifier of 'resource'. The identifiers are modified in place;
'included' and the resource's own attributes are left untouched.

Nothing happens if the resource has no relationships or if 'included' is
empty. If an identifier has no match in a non-empty 'included', a
*MissingIncludedError is returned; identifiers visited before that keep the
attributes they received.
*/
func AttachAttributes(resource *ResourceObject, included []*ResourceObject) error {
	if resource == nil || len(resource.Relationships) == 0 || len(included) == 0 {
		return nil
	}

	names := make([]string, 0, len(resource.Relationships))
	for name := range resource.Relationships {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		relationship := resource.Relationships[name]
		if relationship == nil {
			continue
		}
		switch relationship.Data.Kind {
		case PLURAL:
			for _, identifier := range relationship.Data.Plural {
				err := attachOne(resource, name, identifier, included)
				if err != nil {
					return err
				}
			}
		case SINGULAR:
			err := attachOne(resource, name, relationship.Data.Singular, included)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func attachOne(
	resource *ResourceObject,
	name string,
	identifier *ResourceIdentifier,
	included []*ResourceObject,
) error {
	if identifier == nil {
		return nil
	}
	match := findIncluded(identifier, included)
	if match == nil {
		return &MissingIncludedError{
			Resource:     ResourceIdentifier{Type: resource.Type, Id: resource.Id},
			Relationship: name,
			Reference:    ResourceIdentifier{Type: identifier.Type, Id: identifier.Id},
		}
	}
	identifier.Attributes = copyAttributes(match.Attributes)
	return nil
}

/*
ResolveDocument
Denormalizes a document: every relationship identifier of every primary
resource receives the attributes of its included counterpart. The same
document is returned so the call can be chained after decoding.

Resolving an already resolved document yields the same attributes again.
*/
func ResolveDocument(document *Document) (*Document, error) {
	if document == nil {
		return nil, nil
	}
	for _, resource := range document.Resources() {
		err := AttachAttributes(resource, document.Included)
		if err != nil {
			return document, err
		}
	}
	return document, nil
}
