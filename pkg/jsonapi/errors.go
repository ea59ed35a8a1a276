package jsonapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

/*
Error type for {json:api} errors.

You can inspect the contents of the error response with errors.As.
Example:

	    _, err := api.Update(ctx, "articles", "1", attributes, nil)
	    var e *jsonapi.Error
	    if errors.As(err, &e) {
			// "Smartly" inspect the contents of the error
			for _, errorItem := range e.Errors {
				if errorItem.Status == "404" {
					fmt.Println("Something was not found")
				}
			}
	    }
*/
type Error struct {
	StatusCode int
	Errors     []ErrorItem `json:"errors"`
}

type ErrorItem struct {
	Id     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
	Code   string `json:"code,omitempty"`
	Title  string `json:"title,omitempty"`
	Detail string `json:"detail,omitempty"`
	Source struct {
		Pointer   string `json:"pointer,omitempty"`
		Parameter string `json:"parameter,omitempty"`
	} `json:"source,omitempty"`
}

func (e *Error) Error() string {
	// 400: code: detail, ...
	result := make([]string, 0, len(e.Errors)+1)
	result = append(result, fmt.Sprint(e.StatusCode))
	for _, errorItem := range e.Errors {
		detail := errorItem.Detail
		if detail == "" {
			detail = errorItem.Title
		}
		result = append(result,
			fmt.Sprintf("%s: %s", errorItem.Code, detail))
	}
	return strings.Join(result, ", ")
}

func parseErrorResponse(statusCode int, body []byte) *Error {
	if statusCode < 400 {
		return nil
	}
	errorResponse := Error{StatusCode: statusCode}

	// Intentionally ignore parse errors
	_ = json.Unmarshal(body, &errorResponse)

	return &errorResponse
}

type RedirectError struct {
	Location string
}

func (m *RedirectError) Error() string {
	return "jsonapi does not handle redirects. You can access the Location " +
		"header with " +
		"`var e *jsonapi.RedirectError; errors.As(err, &e); e.Location`"
}

// Returned when a response body is not a {json:api} document
type DecodeError struct {
	Body []byte
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode response body: %s", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

/*
MissingIncludedError
A relationship of a primary resource points at a resource that is absent from
the document's non-empty 'included' array.
*/
type MissingIncludedError struct {
	Resource     ResourceIdentifier
	Relationship string
	Reference    ResourceIdentifier
}

func (e *MissingIncludedError) Error() string {
	return fmt.Sprintf(
		"relationship '%s' of resource '%s' references '%s' which is not "+
			"in the included resources",
		e.Relationship, e.Resource, e.Reference,
	)
}
