package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/employee-api/pkg/employees"
	"github.com/hashicorp-forge/employee-api/pkg/upstream"
)

// maxRequestBody bounds request bodies read by handlers.
const maxRequestBody = 1 << 20

// decodeRequest decodes the JSON request body into r.
func decodeRequest(req *http.Request, r any) error {
	dec := json.NewDecoder(io.LimitReader(req.Body, maxRequestBody))
	if err := dec.Decode(r); err != nil {
		return err
	}
	return nil
}

// writeJSON writes v as the JSON response body with the given status code.
func writeJSON(w http.ResponseWriter, log hclog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("error encoding response", "error", err)
	}
}

// parseResourceIDFromURL parses a URL path with the format
// "/api/v1/{apiPath}/{resourceID}" and returns the resource ID.
func parseResourceIDFromURL(url, apiPath string) (string, error) {
	// Remove API path from URL.
	url = strings.TrimPrefix(url, fmt.Sprintf("/api/v1/%s", apiPath))

	var resultPath []string
	for _, v := range strings.Split(url, "/") {
		if v != "" {
			resultPath = append(resultPath, v)
		}
	}

	// Only a single path segment is a resource ID; "/{id}" becomes ["{id}"].
	if len(resultPath) > 1 {
		return "", fmt.Errorf("invalid URL path")
	}
	if len(resultPath) == 0 {
		return "", employees.ErrBlankID
	}

	return resultPath[0], nil
}

// errorStatus maps an aggregator error to the HTTP status returned to the
// caller.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, employees.ErrBlankID):
		return http.StatusBadRequest
	case errors.Is(err, upstream.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, upstream.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, upstream.ErrMalformed),
		errors.Is(err, upstream.ErrUnexpectedStatus):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the mapped status with a short message.
func respondError(w http.ResponseWriter, log hclog.Logger, msg string, err error) {
	status := errorStatus(err)
	log.Error(msg, "error", err, "status", status)
	http.Error(w, fmt.Sprintf("%s: %v", capitalize(msg), err), status)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
