package adapter

import "fmt"

// The error taxonomy every adapter call resolves into:
//
//   - ConfigError: bad market id, malformed credentials or signing key.
//     Fatal, never retried, surfaced at construction or on first use.
//   - NetworkError: transport-classified transient failure. Passed through
//     unchanged; retry policy belongs to the caller.
//   - TradingError: everything else. Unexpected payload shape, explicit
//     failure flag from the venue, unrecognised wire value, or any unforeseen
//     error caught at the adapter boundary. Always wraps the cause.

// ConfigError reports a fatal configuration problem.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config: %s: %v", e.Msg, e.Err)
	}
	return "config: " + e.Msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError creates a ConfigError wrapping an optional cause.
func NewConfigError(msg string, err error) *ConfigError {
	return &ConfigError{Msg: msg, Err: err}
}

// NetworkError reports a transient transport failure: a connection that
// failed outright, or a response matching one of the configured non-fatal
// status codes or message substrings.
type NetworkError struct {
	URL        string
	StatusCode int // 0 when the connection never produced a response
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("network: %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("network: %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TradingError is the catch-all protocol/application error. Op names the
// public operation that failed.
type TradingError struct {
	Op  string
	Msg string
	Err error
}

func (e *TradingError) Error() string {
	s := "trading: " + e.Op
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *TradingError) Unwrap() error { return e.Err }

// NewTradingError creates a TradingError wrapping an optional cause.
func NewTradingError(op, msg string, err error) *TradingError {
	return &TradingError{Op: op, Msg: msg, Err: err}
}
