package jsonapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pterm/pterm"
)

const MediaType = "application/vnd.api+json"

type Config struct {
	// Prefix of every request path, eg 'https://example.com/api'
	BaseURL string
	Headers map[string]string
}

type Connection struct {
	Config Config
	Client *http.Client

	// Used for testing
	RequestMethod func(method, path string,
		payload []byte, contentType string) ([]byte, error)
}

func NewConnection(cfg Config, client *http.Client) *Connection {
	if client == nil {
		client = &http.Client{}
	}
	return &Connection{Config: cfg, Client: client}
}

func (c *Connection) request(
	ctx context.Context,
	method,
	path string,
	payload []byte,
) ([]byte, error) {
	var contentType string
	if payload != nil {
		contentType = MediaType
	}
	if c.RequestMethod != nil {
		return c.RequestMethod(method, path, payload, contentType)
	}

	if strings.HasPrefix(path, "/") {
		path = strings.TrimSuffix(c.Config.BaseURL, "/") + path
	}

	client := c.Client
	if client == nil {
		client = &http.Client{}
	}
	if client.CheckRedirect == nil {
		// Copy so that the caller's client is left alone
		copied := *client
		copied.CheckRedirect = func(
			req *http.Request, via []*http.Request,
		) error {
			return &RedirectError{Location: req.URL.String()}
		}
		client = &copied
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	requestObj, err := http.NewRequestWithContext(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	for header, value := range c.Config.Headers {
		requestObj.Header.Set(header, value)
	}
	// Configured headers cannot change the media type
	requestObj.Header.Set("Accept", MediaType)
	if contentType != "" {
		requestObj.Header.Set("Content-Type", contentType)
	}

	pterm.Debug.Printfln("%s %s", method, path)
	response, err := client.Do(requestObj)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()
	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	pterm.Debug.Printfln("%s %s -> %d", method, path, response.StatusCode)

	errorResponse := parseErrorResponse(response.StatusCode, responseBody)
	if errorResponse != nil {
		return nil, errorResponse
	}

	return responseBody, nil
}

/*
FetchList
Returns the resources of a type, with relationships resolved against the
response's included resources.
*/
func (c *Connection) FetchList(
	ctx context.Context, Type string, query Query,
) (*Document, error) {
	return c.fetch(ctx, "/"+url.PathEscape(Type), query)
}

/*
FetchSingle
Returns a single resource based on its 'type' and 'id'. Sort and pagination
parameters of the query do not apply to single resources and are ignored.
*/
func (c *Connection) FetchSingle(
	ctx context.Context, Type, Id string, query Query,
) (*Document, error) {
	query.Sort = nil
	query.PageOffset = 0
	query.PageLimit = 0
	return c.fetch(
		ctx, fmt.Sprintf("/%s/%s", url.PathEscape(Type), url.PathEscape(Id)),
		query,
	)
}

func (c *Connection) fetch(
	ctx context.Context, path string, query Query,
) (*Document, error) {
	if encoded := query.Encode(); encoded != "" {
		path = path + "?" + encoded
	}
	body, err := c.request(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}
	document, err := decodeDocument(body)
	if err != nil {
		return nil, err
	}
	return ResolveDocument(document)
}

/*
Create
Sends a POST request with a new resource. The decoded response is returned
as-is, without resolving included resources.
*/
func (c *Connection) Create(
	ctx context.Context,
	Type string,
	attributes map[string]interface{},
	relationships map[string]*Relationship,
) (*Document, error) {
	payload := PayloadSingular{Data: PayloadResource{
		Type:          Type,
		Attributes:    attributes,
		Relationships: relationships,
	}}
	return c.write(ctx, "POST", "/"+url.PathEscape(Type), payload)
}

/*
Update
Sends a PATCH request with the given attributes and relationships of an
existing resource.
*/
func (c *Connection) Update(
	ctx context.Context,
	Type, Id string,
	attributes map[string]interface{},
	relationships map[string]*Relationship,
) (*Document, error) {
	payload := PayloadSingular{Data: PayloadResource{
		Type:          Type,
		Id:            Id,
		Attributes:    attributes,
		Relationships: relationships,
	}}
	return c.write(
		ctx, "PATCH",
		fmt.Sprintf("/%s/%s", url.PathEscape(Type), url.PathEscape(Id)),
		payload,
	)
}

/*
Remove
Deletes a resource from the server. Servers usually respond with an empty body,
in which case the returned document is nil.
*/
func (c *Connection) Remove(
	ctx context.Context, Type, Id string,
) (*Document, error) {
	body, err := c.request(
		ctx, "DELETE",
		fmt.Sprintf("/%s/%s", url.PathEscape(Type), url.PathEscape(Id)),
		nil,
	)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	return decodeDocument(body)
}

func (c *Connection) write(
	ctx context.Context, method, path string, payload PayloadSingular,
) (*Document, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	body, err = c.request(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	return decodeDocument(body)
}
