package jsonapi

import "fmt"

type CapturedRequest struct {
	Method      string
	Payload     []byte
	ContentType string
}
type MockResponse struct {
	Text     string
	Redirect string
	Error    error
}

type MockRequest struct {
	Response MockResponse
	Request  CapturedRequest
}

type MockEndpoint struct {
	Requests []MockRequest
	Count    int
}

// Path (including the querystring) -> responses to send in order
type MockData map[string]*MockEndpoint

func (mockData *MockData) Get(path string) *MockRequest {
	endpoint, exists := (*mockData)[path]
	if !exists {
		return nil
	}
	if endpoint.Count >= len(endpoint.Requests) {
		return nil
	}
	endpoint.Count++
	return &endpoint.Requests[endpoint.Count-1]
}

func GetTestConnection(mockData MockData) *Connection {
	return &Connection{
		RequestMethod: func(
			method, path string, payload []byte, contentType string,
		) ([]byte, error) {
			mockRequest := mockData.Get(path)
			if mockRequest == nil {
				return nil, fmt.Errorf("%s not found", path)
			}
			mockRequest.Request.Method = method
			mockRequest.Request.Payload = payload
			mockRequest.Request.ContentType = contentType

			if mockRequest.Response.Error != nil {
				return nil, mockRequest.Response.Error
			}
			if mockRequest.Response.Redirect != "" {
				return nil, &RedirectError{mockRequest.Response.Redirect}
			}
			return []byte(mockRequest.Response.Text), nil
		},
	}
}

// Single-response endpoint, for brevity in tests
func GetMockTextResponse(text string) *MockEndpoint {
	return &MockEndpoint{
		Requests: []MockRequest{{Response: MockResponse{Text: text}}},
	}
}
