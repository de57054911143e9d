package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

var statusErrors = map[int]error{
	http.StatusBadRequest:            ErrBadRequest,
	http.StatusUnauthorized:          ErrUnauthorized,
	http.StatusForbidden:             ErrForbidden,
	http.StatusNotFound:              ErrNotFound,
	http.StatusConflict:              ErrConflict,
	http.StatusRequestEntityTooLarge: ErrPayloadTooLarge,
	http.StatusBadGateway:            ErrBadGateway,
	http.StatusInternalServerError:   ErrInternalServerError,
}

// mapHTTPError turns a non-2xx response into a sentinel error carrying the
// response body. Unlisted 5xx statuses map to [ErrInternalServerError].
func mapHTTPError(resp *resty.Response) error {
	status := resp.StatusCode()
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(status)
	}

	if target, ok := statusErrors[status]; ok {
		return fmt.Errorf("%w: %s", target, body)
	}
	if status >= http.StatusInternalServerError {
		return fmt.Errorf("%w: http %d: %s", ErrInternalServerError, status, body)
	}
	return fmt.Errorf("http %d: %s", status, body)
}
