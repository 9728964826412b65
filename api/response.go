package api

import (
	"encoding/json"
	"net/http"
)

// Error is a generic error structure that is used to send error responses to the client.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Extra   any    `json:"extra,omitempty"`
}

// Response is a generic response structure that is used to send responses to the client.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  *Error `json:"error,omitempty"`
}

func NewResponse() *Response {
	return &Response{}
}

// Error message
func (e *Error) Error() string {
	return e.Message
}

// Set data to response
func (rsp *Response) SetData(data any) *Response {
	rsp.Data = data
	rsp.Error = nil
	return rsp
}

// Set error to response, extra is an optional payload with details
func (rsp *Response) SetError(code string, message string, extra ...any) *Response {
	rsp.Data = nil
	rsp.Error = &Error{
		Code:    code,
		Message: message,
	}
	if len(extra) == 1 {
		rsp.Error.Extra = extra[0]
	} else if len(extra) > 1 {
		rsp.Error.Extra = extra
	}
	return rsp
}

func (rsp *Response) send(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status >= http.StatusBadRequest {
		rsp.Status = "error"
		if rsp.Error == nil {
			rsp.Error = &Error{Code: code, Message: message}
		}
	} else {
		rsp.Status = "ok"
	}
	_ = json.NewEncoder(w).Encode(rsp)
}

// Send success response to client
func (rsp *Response) Ok(w http.ResponseWriter) {
	rsp.send(w, http.StatusOK, "", "")
}

// Send error response to client
func (rsp *Response) BadRequest(w http.ResponseWriter) {
	rsp.send(w, http.StatusBadRequest, "bad_request", "Bad request")
}

// Send error response to client
func (rsp *Response) Unauthorized(w http.ResponseWriter) {
	rsp.send(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
}

// Send error response to client
func (rsp *Response) NotFound(w http.ResponseWriter) {
	rsp.send(w, http.StatusNotFound, "not_found", "Not found")
}

// Send error response to client
func (rsp *Response) InternalServerError(w http.ResponseWriter) {
	rsp.send(w, http.StatusInternalServerError, "internal_server_error", "Internal server error")
}

// Send error response to client
func (rsp *Response) ServiceUnavailable(w http.ResponseWriter) {
	rsp.send(w, http.StatusServiceUnavailable, "service_unavailable", "Service unavailable")
}
