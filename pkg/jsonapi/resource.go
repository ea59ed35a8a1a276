package jsonapi

import (
	"encoding/json"
)

/*
MapAttributes Map a resource's attributes to a struct. Usage:

    type ArticleAttributes struct {
        Title string `json:"title"`
        ...
    }

    func main() {
        api := jsonapi.NewConnection(jsonapi.Config{...}, nil)
        document, _ := api.FetchSingle(ctx, "articles", "1", jsonapi.Query{})
        var articleAttributes ArticleAttributes
        document.Data.Singular.MapAttributes(&articleAttributes)

        fmt.Println(articleAttributes.Title)
    }

*/
func (r *ResourceObject) MapAttributes(result interface{}) error {
	data, err := json.Marshal(r.Attributes)
	if err != nil {
		return err
	}
	return unmarshal(data, result)
}

/*
UnmapAttributes Unmap a struct to a resource's attributes (possibly before
sending them with 'Update').

Usage:

    var articleAttributes ArticleAttributes
    article.MapAttributes(&articleAttributes)

    articleAttributes.Title = "New title"
    article.UnmapAttributes(articleAttributes)
    api.Update(ctx, article.Type, article.Id, article.Attributes, nil)
*/
func (r *ResourceObject) UnmapAttributes(source interface{}) error {
	data, err := json.Marshal(source)
	if err != nil {
		return err
	}
	var attributes map[string]interface{}
	err = unmarshal(data, &attributes)
	if err != nil {
		return err
	}
	if r.Attributes == nil {
		r.Attributes = make(map[string]interface{})
	}
	for key, value := range attributes {
		r.Attributes[key] = value
	}
	return nil
}

/*
SetRelated Set a to-one relationship of a resource, keeping any links the
relationship already had. Useful for building the 'relationships' argument of
Create and Update:

    article := jsonapi.ResourceObject{Type: "articles"}
    article.SetRelated("author", jsonapi.ResourceIdentifier{Type: "people", Id: "9"})
    api.Create(ctx, article.Type, article.Attributes, article.Relationships)
*/
func (r *ResourceObject) SetRelated(field string, related ResourceIdentifier) {
	r.setRelationship(field, One(related))
}

// SetRelatedMany Set a to-many relationship of a resource
func (r *ResourceObject) SetRelatedMany(field string, related []ResourceIdentifier) {
	r.setRelationship(field, Many(related...))
}

func (r *ResourceObject) setRelationship(field string, data RelationshipData) {
	var links *Links
	existing, exists := r.Relationships[field]
	if exists && existing != nil {
		links = existing.Links
	}

	if r.Relationships == nil {
		r.Relationships = make(map[string]*Relationship)
	}

	r.Relationships[field] = &Relationship{
		Data:  data,
		Links: links,
	}
}

// Related returns the relationship data of 'field', or a NULL one if the
// resource has no such relationship
func (r *ResourceObject) Related(field string) RelationshipData {
	relationship, exists := r.Relationships[field]
	if !exists || relationship == nil {
		return RelationshipData{Kind: NULL}
	}
	return relationship.Data
}
