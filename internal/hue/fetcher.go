package hue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// TransportError reports a network-level fetch failure (refused connection,
// timeout, DNS). Non-fatal: the poller retries on the next tick.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-200 response from the device. Treated like a
// transport failure for availability purposes.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("unexpected status code: %d", e.Code) }

// ParseError reports a response body that could not be decoded. The device
// answered, just not in a shape we understand, so this does not count as
// device unavailability.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("malformed device state: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// Fetcher retrieves one device state snapshot per call. It does not interpret
// the content beyond decoding it.
type Fetcher struct {
	address    string
	httpClient *http.Client
}

// NewFetcher creates a Fetcher for the device at address (IP or host). A zero
// timeout falls back to 10s so a wedged device cannot block a tick forever.
func NewFetcher(address string, timeout time.Duration) *Fetcher {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		address:    address,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Address returns the configured device address.
func (f *Fetcher) Address() string {
	return f.address
}

func (f *Fetcher) stateURL() string {
	return fmt.Sprintf("http://%s/state.xml", f.address)
}

// Fetch issues one GET against the device status endpoint and decodes the
// snapshot. Despite the endpoint name, the payload is a keyed JSON structure.
func (f *Fetcher) Fetch(ctx context.Context) (*DeviceState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.stateURL(), nil)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var state DeviceState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, &ParseError{Err: err}
	}

	log.Debug().
		Int("lights", len(state.Lights)).
		Int("groups", len(state.Groups)).
		Msg("Device state fetched")

	return &state, nil
}
