package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an engine failure independently of any transport.
type Kind uint8

const (
	KindInternal Kind = iota
	KindNotFound
	KindUnauthorized
	KindConflict
	KindExpired
	KindInvalidInput
	KindInsufficientQuorum
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindExpired:
		return "expired"
	case KindInvalidInput:
		return "invalid_input"
	case KindInsufficientQuorum:
		return "insufficient_quorum"
	case KindInternal:
		return "internal"
	default:
		return "undefined kind"
	}
}

// HTTPStatus maps the kind to an HTTP-style severity for the API layer.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindExpired:
		return http.StatusGone
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindInsufficientQuorum:
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

// Stable machine-readable codes. These are part of the external contract and
// must not be renamed.
const (
	CodeMultiSigNotFound       = "multisig_not_found"
	CodeProposalNotFound       = "proposal_not_found"
	CodeConfigExists           = "config_exists"
	CodeInvalidThreshold       = "invalid_threshold"
	CodeUnauthorizedSigner     = "unauthorized_signer"
	CodeDuplicateSignature     = "duplicate_signature"
	CodeInvalidSignature       = "invalid_signature"
	CodeProposalExpired        = "proposal_expired"
	CodeProposalExecuted       = "proposal_already_executed"
	CodeProposalNotPending     = "proposal_not_pending"
	CodeInsufficientSignatures = "insufficient_signatures"
	CodeInvalidOperation       = "invalid_operation"
)

// Error is a caller-correctable engine failure with a stable code. The
// message names the specific invariant violated since it is shown to signers
// coordinating a real financial action.
type Error struct {
	kind    Kind
	code    string
	message string
}

func (e *Error) Error() string {
	return e.code + ": " + e.message
}

func (e *Error) Kind() Kind {
	return e.kind
}

func (e *Error) Code() string {
	return e.code
}

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind    string `json:"kind"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Kind:    e.kind.String(),
		Code:    e.code,
		Message: e.message,
	})
}

func New(kind Kind, code, message string) *Error {
	return &Error{
		kind:    kind,
		code:    code,
		message: message,
	}
}

func Newf(kind Kind, code, format string, values ...interface{}) *Error {
	if len(values) == 0 {
		return New(kind, code, format)
	}
	return New(kind, code, fmt.Sprintf(format, values...))
}

// CodeOf extracts the machine code from err, or empty when err is not an
// engine error.
func CodeOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.code
	}
	return ""
}

// HTTPStatusOf resolves the response status for err, defaulting to 500 for
// unclassified errors.
func HTTPStatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.kind.HTTPStatus()
	}
	return http.StatusInternalServerError
}
