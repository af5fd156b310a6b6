package quiz

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// FailureKind selects the recovery path offered after a failed fetch.
type FailureKind int

const (
	// FailureOther is a failure from a live backend: retry is the only action.
	FailureOther FailureKind = iota
	// FailurePaused means the backend looks dormant and should be woken first.
	FailurePaused
)

func (k FailureKind) String() string {
	if k == FailurePaused {
		return "paused"
	}
	return "other"
}

// StatusProjectPaused is the status a paused hosted project answers with.
const StatusProjectPaused = 540

// pausedCodes are backend error codes that mean "not accepting work yet".
var pausedCodes = map[string]struct{}{
	"PGRST002": {}, // schema cache not loaded
	"57P01":    {}, // admin_shutdown
	"57P03":    {}, // cannot_connect_now
	"08001":    {}, // sqlclient_unable_to_establish_sqlconnection
	"08006":    {}, // connection_failure
}

// FetchError is how repositories report a failed ListPublished.
type FetchError struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, ": code %s", e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Classify maps a fetch failure to exactly one FailureKind. It inspects only
// the shape of err and never performs I/O.
//
// The rule is deliberately loose: anything without a usable status is treated
// as a dormant backend, so some genuine application errors land on Paused.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureOther
	}
	if errors.Is(err, ErrEmptyPool) || errors.Is(err, ErrMalformedItem) {
		return FailureOther
	}
	if isTransportError(err) {
		return FailurePaused
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		return FailurePaused
	}
	if _, ok := pausedCodes[fetchErr.Code]; ok {
		return FailurePaused
	}
	switch fetchErr.StatusCode {
	case http.StatusServiceUnavailable, StatusProjectPaused:
		return FailurePaused
	case 0:
		if fetchErr.Code == "" {
			return FailurePaused
		}
	}
	return FailureOther
}

func isTransportError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, driver.ErrBadConn)
}
