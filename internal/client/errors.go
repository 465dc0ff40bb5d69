package client

import "fmt"

// Error is implemented by all errors raised by this package. Def returns
// a machine-parsable definition string: a semicolon-separated listing of
// "name=value" pairs with Go-syntax value notation, selected with the
// --error-format def general option.
type Error interface {
	error
	Def() string
}

// AuthError indicates missing or rejected logon data.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Def() string {
	return fmt.Sprintf("classname=%q; message=%q", "AuthError", e.Message)
}

// ConnError indicates that the HMC could not be reached.
type ConnError struct {
	Message string
	Err     error
}

func (e *ConnError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err)
	}
	return e.Message
}

func (e *ConnError) Unwrap() error {
	return e.Err
}

func (e *ConnError) Def() string {
	return fmt.Sprintf("classname=%q; message=%q", "ConnError", e.Error())
}

// HTTPError is an error response from the HMC, carrying the HTTP status
// and the HMC reason code from the error envelope.
type HTTPError struct {
	Method  string
	URI     string
	Status  int
	Reason  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s failed with %d,%d: %s",
		e.Method, e.URI, e.Status, e.Reason, e.Message)
}

func (e *HTTPError) Def() string {
	return fmt.Sprintf(
		"classname=%q; request_method=%q; request_uri=%q; http_status=%d; "+
			"reason=%d; message=%q",
		"HTTPError", e.Method, e.URI, e.Status, e.Reason, e.Message)
}

// ParseError indicates a response body that could not be decoded.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Def() string {
	return fmt.Sprintf("classname=%q; message=%q", "ParseError", e.Error())
}
