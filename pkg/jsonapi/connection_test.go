package jsonapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xlate/jsonapi-rvp/pkg/assert"
)

func TestFetchSingle(t *testing.T) {
	var capturedMethod string
	var capturedPath string
	var capturedPayload []byte
	var capturedContentType string

	api := Connection{
		RequestMethod: func(
			method, path string, payload []byte, contentType string,
		) ([]byte, error) {
			capturedMethod = method
			capturedPath = path
			capturedPayload = payload
			capturedContentType = contentType

			response := `{"data": {"type": "articles",
                                  "id": "1",
                                  "attributes": {"title": "Hello"},
                                  "relationships": {
                                      "author": {"data": {"type": "people",
                                                          "id": "9"}}}},
                          "included": [{"type": "people",
                                        "id": "9",
                                        "attributes": {"name": "Ann"}}]}`
			return []byte(response), nil
		},
	}

	document, err := api.FetchSingle(
		context.Background(), "articles", "1",
		Query{
			Include:   []string{"author"},
			Sort:      []string{"title"},
			PageLimit: 10,
		},
	)
	assert.NoError(t, err)

	if capturedMethod != "GET" ||
		capturedPath != "/articles/1?include=author" ||
		capturedPayload != nil || capturedContentType != "" {
		t.Errorf("Captured wrong arguments to Request: %s %s",
			capturedMethod, capturedPath)
	}
	testCases := []struct {
		name     string
		getter   func() interface{}
		expected interface{}
	}{
		{"type", func() interface{} { return document.Data.Singular.Type }, "articles"},
		{"ID", func() interface{} { return document.Data.Singular.Id }, "1"},
		{"title",
			func() interface{} { return document.Data.Singular.Attributes["title"] },
			"Hello"},
		{"author's name",
			func() interface{} {
				return document.Data.Singular.Related("author").
					Singular.Attributes["name"]
			},
			"Ann"},
	}
	for _, testCase := range testCases {
		value := testCase.getter()
		if value != testCase.expected {
			t.Errorf("Article's %s was '%s', expected %s",
				testCase.name, value, testCase.expected)
		}
	}
}

func TestFetchList(t *testing.T) {
	path := "/articles?fields[articles]=title,tags&include=tags&" +
		"page[offset]=2&page[limit]=2"
	mockData := MockData{
		path: GetMockTextResponse(`{"data": [
            {"type": "articles",
             "id": "1",
             "attributes": {"title": "Article One"},
             "relationships": {"tags": {"data": [{"type": "tags", "id": "a"}]}}},
            {"type": "articles",
             "id": "2",
             "attributes": {"title": "Article Two"},
             "relationships": {"tags": {"data": [{"type": "tags", "id": "a"},
                                                 {"type": "tags", "id": "b"}]}}}
        ],
        "included": [{"type": "tags", "id": "b", "attributes": {"label": "Bee"}},
                     {"type": "tags", "id": "a", "attributes": {"label": "Ay"}}],
        "links": {"next": "/articles?page[offset]=4&page[limit]=2"}}`),
	}
	api := GetTestConnection(mockData)

	document, err := api.FetchList(context.Background(), "articles", Query{
		Fields:     map[string][]string{"articles": {"title", "tags"}},
		Include:    []string{"tags"},
		PageOffset: 2,
		PageLimit:  2,
	})
	assert.NoError(t, err)

	request := mockData[path].Requests[0].Request
	assert.Equal(t, request.Method, "GET")
	assert.Equal(t, len(request.Payload), 0)

	assert.Equal(t, len(document.Data.Plural), 2)
	first := document.Data.Plural[0].Related("tags").Plural
	second := document.Data.Plural[1].Related("tags").Plural
	assert.Equal(t, len(first), 1)
	assert.Equal(t, first[0].Attributes["label"], "Ay")
	assert.Equal(t, len(second), 2)
	assert.Equal(t, second[0].Attributes["label"], "Ay")
	assert.Equal(t, second[1].Attributes["label"], "Bee")
	assert.Equal(t, document.Links.Next, "/articles?page[offset]=4&page[limit]=2")
}

func TestFetchListSurfacesTransportErrors(t *testing.T) {
	mockData := MockData{
		"/articles": &MockEndpoint{Requests: []MockRequest{{
			Response: MockResponse{Error: errors.New("connection refused")},
		}}},
	}
	api := GetTestConnection(mockData)

	document, err := api.FetchList(context.Background(), "articles", Query{})
	if err == nil || err.Error() != "connection refused" {
		t.Errorf("Got error %v, expected 'connection refused'", err)
	}
	if document != nil {
		t.Error("Expected no document")
	}
}

func TestFetchListSurfacesDecodeErrors(t *testing.T) {
	api := GetTestConnection(MockData{
		"/articles": GetMockTextResponse("not json"),
	})

	_, err := api.FetchList(context.Background(), "articles", Query{})
	var e *DecodeError
	assert.True(t, errors.As(err, &e), "expected DecodeError, got %v", err)
}

func TestFetchListSurfacesMissingIncluded(t *testing.T) {
	api := GetTestConnection(MockData{
		"/articles?include=author": GetMockTextResponse(`{
            "data": [{"type": "articles", "id": "1",
                      "relationships": {"author": {"data": {"type": "people",
                                                            "id": "8"}}}}],
            "included": [{"type": "people", "id": "9"}]}`),
	})

	document, err := api.FetchList(
		context.Background(), "articles", Query{Include: []string{"author"}},
	)
	var e *MissingIncludedError
	assert.True(t, errors.As(err, &e), "expected MissingIncludedError, got %v", err)
	assert.True(t, document != nil, "expected the partially resolved document")
}

func TestCreate(t *testing.T) {
	mockData := MockData{
		"/articles": GetMockTextResponse(`{"data": {"type": "articles",
                                                     "id": "1",
                                                     "attributes": {"title": "Hello"}}}`),
	}
	api := GetTestConnection(mockData)

	document, err := api.Create(
		context.Background(),
		"articles",
		map[string]interface{}{"title": "Hello"},
		map[string]*Relationship{
			"author": {Data: One(ResourceIdentifier{Type: "people", Id: "9"})},
		},
	)
	assert.NoError(t, err)

	request := mockData["/articles"].Requests[0].Request
	assert.Equal(t, request.Method, "POST")
	assert.Equal(t, request.ContentType, MediaType)
	expectedPayload := `{"data": {
        "type": "articles",
        "attributes": {"title": "Hello"},
        "relationships": {"author": {"data": {"type": "people", "id": "9"}}}
    }}`
	isEqual, err := jsonEqual(request.Payload, []byte(expectedPayload))
	assert.NoError(t, err)
	if !isEqual {
		t.Errorf("Captured payload %s, expected %s",
			string(request.Payload), expectedPayload)
	}
	assert.Equal(t, document.Data.Singular.Id, "1")
}

func TestUpdate(t *testing.T) {
	mockData := MockData{
		"/articles/1": GetMockTextResponse(`{
            "data": {"type": "articles",
                     "id": "1",
                     "attributes": {"title": "Bye"},
                     "relationships": {"tags": {"data": [{"type": "tags",
                                                          "id": "a"}]}}},
            "included": [{"type": "tags", "id": "a", "attributes": {"label": "Ay"}}]
        }`),
	}
	api := GetTestConnection(mockData)

	document, err := api.Update(
		context.Background(), "articles", "1",
		map[string]interface{}{"title": "Bye"},
		map[string]*Relationship{
			"tags": {Data: Many(ResourceIdentifier{Type: "tags", Id: "a"})},
		},
	)
	assert.NoError(t, err)

	request := mockData["/articles/1"].Requests[0].Request
	assert.Equal(t, request.Method, "PATCH")
	expectedPayload := `{"data": {
        "type": "articles",
        "id": "1",
        "attributes": {"title": "Bye"},
        "relationships": {"tags": {"data": [{"type": "tags", "id": "a"}]}}
    }}`
	isEqual, err := jsonEqual(request.Payload, []byte(expectedPayload))
	assert.NoError(t, err)
	if !isEqual {
		t.Errorf("Captured payload %s, expected %s",
			string(request.Payload), expectedPayload)
	}

	// Write responses are not resolved
	tags := document.Data.Singular.Related("tags").Plural
	assert.Equal(t, len(tags), 1)
	assert.True(t, tags[0].Attributes == nil, "tags were resolved")
}

func TestRemove(t *testing.T) {
	mockData := MockData{"/articles/1": GetMockTextResponse("")}
	api := GetTestConnection(mockData)

	document, err := api.Remove(context.Background(), "articles", "1")
	assert.NoError(t, err)
	assert.True(t, document == nil, "expected no document")

	request := mockData["/articles/1"].Requests[0].Request
	assert.Equal(t, request.Method, "DELETE")
	assert.Equal(t, len(request.Payload), 0)
}

func TestRequestOverHTTP(t *testing.T) {
	var capturedAccept, capturedContentType, capturedCustom, capturedPath string
	var capturedBody []byte
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			capturedAccept = r.Header.Get("Accept")
			capturedContentType = r.Header.Get("Content-Type")
			capturedCustom = r.Header.Get("X-Tenant")
			capturedPath = r.URL.RequestURI()
			capturedBody, _ = io.ReadAll(r.Body)
			w.Header().Set("Content-Type", MediaType)
			_, _ = w.Write([]byte(`{"data": {"type": "articles", "id": "1"}}`))
		},
	))
	defer server.Close()

	api := NewConnection(Config{
		BaseURL: server.URL + "/api/",
		Headers: map[string]string{"X-Tenant": "acme"},
	}, server.Client())

	_, err := api.FetchSingle(context.Background(), "articles", "1", Query{})
	assert.NoError(t, err)
	assert.Equal(t, capturedAccept, MediaType)
	assert.Equal(t, capturedContentType, "")
	assert.Equal(t, capturedCustom, "acme")
	assert.Equal(t, capturedPath, "/api/articles/1")
	assert.Equal(t, len(capturedBody), 0)

	_, err = api.Create(context.Background(), "articles",
		map[string]interface{}{"title": "Hello"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, capturedContentType, MediaType)
	assert.Equal(t, capturedPath, "/api/articles")
}

func TestConfiguredHeadersKeepMediaType(t *testing.T) {
	var capturedAccept, capturedContentType, capturedCustom string
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			capturedAccept = r.Header.Get("Accept")
			capturedContentType = r.Header.Get("Content-Type")
			capturedCustom = r.Header.Get("X-Tenant")
			_, _ = w.Write([]byte(`{"data": {"type": "articles", "id": "1"}}`))
		},
	))
	defer server.Close()

	api := NewConnection(Config{
		BaseURL: server.URL,
		Headers: map[string]string{
			"Accept":       "application/json",
			"Content-Type": "text/plain",
			"X-Tenant":     "acme",
		},
	}, nil)

	_, err := api.Update(context.Background(), "articles", "1",
		map[string]interface{}{"title": "Bye"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, capturedAccept, MediaType)
	assert.Equal(t, capturedContentType, MediaType)
	assert.Equal(t, capturedCustom, "acme")
}

func TestFetchKeepsLargeIntegers(t *testing.T) {
	mockData := MockData{
		"/articles/1": GetMockTextResponse(`{
            "data": {"type": "articles", "id": "1",
                     "attributes": {"views": 9007199254740993},
                     "relationships": {"author": {"data": {"type": "people", "id": "9"}}}},
            "included": [{"type": "people", "id": "9",
                          "attributes": {"followers": 9007199254740995}}],
            "meta": {"total": 9007199254740997}
        }`),
	}
	api := GetTestConnection(mockData)

	document, err := api.FetchSingle(context.Background(), "articles", "1", Query{})
	assert.NoError(t, err)

	article := document.Data.Singular
	assert.Equal(t, article.Attributes["views"], json.Number("9007199254740993"))
	author := article.Relationships["author"].Data.Singular
	assert.Equal(t, author.Attributes["followers"], json.Number("9007199254740995"))

	encoded, err := json.Marshal(document)
	assert.NoError(t, err)
	for _, number := range []string{
		"9007199254740993", "9007199254740995", "9007199254740997",
	} {
		assert.True(t, strings.Contains(string(encoded), number),
			"%s missing from %s", number, encoded)
	}
}

func TestRequestErrorsOverHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/moved/1":
				http.Redirect(w, r, "/articles/1", http.StatusFound)
			default:
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"errors": [{"status": "404",
                                                     "code": "not_found",
                                                     "detail": "No article"}]}`))
			}
		},
	))
	defer server.Close()

	api := NewConnection(Config{BaseURL: server.URL}, nil)

	_, err := api.FetchSingle(context.Background(), "articles", "2", Query{})
	var apiError *Error
	if !errors.As(err, &apiError) {
		t.Fatalf("Expected jsonapi.Error, got %v", err)
	}
	assert.Equal(t, apiError.StatusCode, 404)
	assert.Equal(t, apiError.Error(), "404, not_found: No article")

	_, err = api.FetchSingle(context.Background(), "moved", "1", Query{})
	var redirectError *RedirectError
	if !errors.As(err, &redirectError) {
		t.Fatalf("Expected jsonapi.RedirectError, got %v", err)
	}
	assert.Equal(t, redirectError.Location, server.URL+"/articles/1")
}

func TestRequestHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data": null}`))
		},
	))
	defer server.Close()

	api := NewConnection(Config{BaseURL: server.URL}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := api.FetchList(ctx, "articles", Query{})
	assert.True(t, errors.Is(err, context.Canceled),
		"expected context.Canceled, got %v", err)
}
