/*
Package jsonapi
Client for {json:api} backends that denormalizes responses.

{json:api} responses carry related resources in a separate 'included' array,
linked to the primary data only by '{type, id}' pairs. Read operations of this
package copy the attributes of every included resource onto the relationship
identifiers that point at it, so that callers don't have to cross-reference
the two arrays.

Usage:

    import "github.com/xlate/jsonapi-rvp/pkg/jsonapi"

    api := jsonapi.NewConnection(
        jsonapi.Config{BaseURL: "https://foo.com/api"}, http.DefaultClient,
    )

    // Lets get a list of things, with their authors
    document, err := api.FetchList(ctx, "articles", jsonapi.Query{
        Fields:  map[string][]string{"articles": {"title", "author"}},
        Filters: map[string]string{"status": "draft"},
        Include: []string{"author"},
    })
    for _, article := range document.Data.Plural {
        author := article.Related("author").Singular
        fmt.Println(article.Attributes["title"], author.Attributes["name"])
    }

    // Lets get a single thing
    document, err = api.FetchSingle(ctx, "articles", "1", jsonapi.Query{})

    // Lets create something new
    document, err = api.Create(ctx, "articles",
        map[string]interface{}{"title": "Hello"},
        map[string]*jsonapi.Relationship{
            "author": {Data: jsonapi.One(jsonapi.ResourceIdentifier{
                Type: "people", Id: "9",
            })},
        },
    )

    // ... change it and delete it
    document, err = api.Update(ctx, "articles", "1",
        map[string]interface{}{"title": "Bye"}, nil)
    _, err = api.Remove(ctx, "articles", "1")

Responses of Create, Update and Remove are decoded but not resolved.
*/
package jsonapi
