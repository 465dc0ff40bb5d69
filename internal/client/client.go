package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
)

// reasonSessionInvalid is the HMC reason code for an expired or invalid
// session-id on a 403 response.
const reasonSessionInvalid = 5

// Get issues a GET against an HMC URI and decodes the JSON response.
func (s *Session) Get(ctx context.Context, uri string) (map[string]any, error) {
	return s.authRequest(ctx, http.MethodGet, uri, nil)
}

// Post issues a POST with an optional JSON body. A nil result (204 or
// empty body) returns an empty map.
func (s *Session) Post(ctx context.Context, uri string, body any) (map[string]any, error) {
	return s.authRequest(ctx, http.MethodPost, uri, body)
}

// Delete issues a DELETE against an HMC URI.
func (s *Session) Delete(ctx context.Context, uri string) error {
	_, err := s.authRequest(ctx, http.MethodDelete, uri, nil)
	return err
}

// authRequest runs a request under the session, logging on first when
// needed. An expired session-id is retried with a fresh logon, but only
// when a password is available for it.
func (s *Session) authRequest(ctx context.Context, method, uri string, body any) (map[string]any, error) {
	if err := s.EnsureLoggedOn(ctx); err != nil {
		return nil, err
	}
	result, err := s.request(ctx, method, uri, body, true)
	if err == nil {
		return result, nil
	}
	var herr *HTTPError
	if errors.As(err, &herr) &&
		herr.Status == http.StatusForbidden &&
		herr.Reason == reasonSessionInvalid &&
		s.password != "" {
		s.apiLog.Info().Str("uri", uri).Msg("session expired, logging on again")
		if lerr := s.logon(ctx); lerr != nil {
			return nil, lerr
		}
		return s.request(ctx, method, uri, body, true)
	}
	return nil, err
}

// request performs one HTTP exchange. withSession controls whether the
// X-API-Session header is sent (the logon request itself must not).
func (s *Session) request(ctx context.Context, method, uri string, body any, withSession bool) (map[string]any, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.base+uri, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withSession {
		if id := s.SessionID(); id != "" {
			req.Header.Set("X-API-Session", id)
		}
	}

	s.requests.Add(1)
	s.hmcLog.Debug().Str("method", method).Str("uri", uri).Msg("request")

	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, &ConnError{
			Message: fmt.Sprintf("cannot reach HMC at %s", s.host),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	s.hmcLog.Debug().Str("method", method).Str("uri", uri).
		Int("status", resp.StatusCode).Msg("response")

	if resp.StatusCode >= 400 {
		return nil, s.errorFromResponse(method, uri, resp)
	}
	if resp.StatusCode == http.StatusNoContent {
		return map[string]any{}, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnError{Message: "read response body", Err: err}
	}
	if len(data) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var result map[string]any
	if err := dec.Decode(&result); err != nil {
		return nil, &ParseError{
			Message: fmt.Sprintf("decode %s %s response", method, uri),
			Err:     err,
		}
	}
	return result, nil
}

// errorFromResponse maps an HMC error envelope onto the error taxonomy.
func (s *Session) errorFromResponse(method, uri string, resp *http.Response) error {
	herr := &HTTPError{
		Method: method,
		URI:    uri,
		Status: resp.StatusCode,
	}
	data, err := io.ReadAll(resp.Body)
	if err == nil && len(data) > 0 {
		var envelope struct {
			Message string `json:"message"`
			Reason  int    `json:"reason"`
		}
		if json.Unmarshal(data, &envelope) == nil {
			herr.Message = envelope.Message
			herr.Reason = envelope.Reason
		}
	}
	if herr.Message == "" {
		herr.Message = http.StatusText(resp.StatusCode)
	}
	if herr.Status == http.StatusUnauthorized ||
		(herr.Status == http.StatusForbidden && !s.adopted && s.SessionID() == "") {
		return &AuthError{Message: herr.Message}
	}
	return herr
}

// ListObjects GETs a list URI and unwraps the {key: [...]} envelope the
// HMC uses for list operations. The optional query filters server-side.
func (s *Session) ListObjects(ctx context.Context, uri, key string, query url.Values) ([]map[string]any, error) {
	if len(query) > 0 {
		uri = uri + "?" + query.Encode()
	}
	result, err := s.Get(ctx, uri)
	if err != nil {
		return nil, err
	}
	items, ok := result[key].([]any)
	if !ok {
		if result[key] == nil {
			return nil, nil
		}
		return nil, &ParseError{
			Message: fmt.Sprintf("list response property %q is not an array", key),
		}
	}
	objects := make([]map[string]any, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &ParseError{
				Message: fmt.Sprintf("list response property %q contains a non-object item", key),
			}
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

// GetProperties GETs the full property set of a resource object.
func (s *Session) GetProperties(ctx context.Context, objectURI string) (map[string]any, error) {
	return s.Get(ctx, objectURI)
}

// UpdateProperties POSTs a property update to a resource object.
func (s *Session) UpdateProperties(ctx context.Context, objectURI string, props map[string]any) error {
	_, err := s.Post(ctx, objectURI, props)
	return err
}

// PropertyNames returns the sorted property names of an object, for
// building full-property record sets.
func PropertyNames(obj map[string]any) []string {
	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
