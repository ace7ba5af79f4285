package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/agentstation/curator/pkg/errors"
	"github.com/agentstation/curator/pkg/logging"
)

// maxErrorBody bounds how much of a failed response body ends up in an error.
const maxErrorBody = 512

// DecodeResponse decodes a JSON response into target. Non-2xx responses
// become *errors.APIError attributed to service.
func DecodeResponse(resp *http.Response, service string, target any) error {
	defer Drain(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(body)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		apiErr := errors.NewAPIError(service, resp.StatusCode, msg)
		if resp.Request != nil && resp.Request.URL != nil {
			apiErr.Endpoint = resp.Request.URL.String()
		}
		return apiErr
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}

	return nil
}

// Drain discards the remaining body and closes it so the connection can be reused.
func Drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	if err := resp.Body.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close response body")
	}
}
