package erp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	logoutSentinel = "LOGOUT"
	noDataFound    = "NO DATA FOUND"
)

// Kind classifies an ERP reply.
type Kind int

const (
	// KindData is a reply carrying a usable payload.
	KindData Kind = iota
	// KindSessionExpired is the LOGOUT sentinel sent for a dead session.
	KindSessionExpired
	// KindNotFound means the ERP has no record for the request.
	KindNotFound
	// KindInvalid means the record exists but cannot be used.
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindSessionExpired:
		return "session_expired"
	case KindNotFound:
		return "not_found"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Result is a decoded ERP reply.
type Result struct {
	Kind   Kind
	Data   json.RawMessage
	Reason string
}

// Decoder turns a response body into a Result. It returns an error only when the
// body cannot be understood at all.
type Decoder func(body []byte) (Result, error)

// classify checks for the logout sentinel before running the endpoint decoder.
func classify(body []byte, decode Decoder) (Result, error) {
	if string(bytes.TrimSpace(body)) == logoutSentinel {
		return Result{Kind: KindSessionExpired}, nil
	}
	if decode == nil {
		decode = DecodeEnvelope
	}
	return decode(body)
}

type envelope struct {
	State string          `json:"STATE"`
	Data  json.RawMessage `json:"DATA"`
}

// DecodeEnvelope decodes the {STATE, DATA} reply used by inquiry endpoints.
func DecodeEnvelope(body []byte) (Result, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if strings.EqualFold(env.State, "FALSE") {
		return Result{Kind: KindNotFound, Reason: "STATE=FALSE"}, nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return Result{Kind: KindNotFound, Reason: "empty DATA"}, nil
	}

	var text string
	if err := json.Unmarshal(env.Data, &text); err == nil && strings.EqualFold(strings.TrimSpace(text), noDataFound) {
		return Result{Kind: KindNotFound, Reason: noDataFound}, nil
	}

	return Result{Kind: KindData, Data: env.Data}, nil
}

// DecodeDoubleEncoded decodes a reply whose JSON document is itself a JSON string,
// as the help search returns it.
func DecodeDoubleEncoded(body []byte) (Result, error) {
	trimmed := bytes.TrimSpace(body)

	var inner string
	if err := json.Unmarshal(trimmed, &inner); err != nil {
		if strings.EqualFold(string(trimmed), noDataFound) {
			return Result{Kind: KindNotFound, Reason: noDataFound}, nil
		}
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	inner = strings.TrimSpace(inner)
	if strings.EqualFold(inner, noDataFound) || inner == "" {
		return Result{Kind: KindNotFound, Reason: noDataFound}, nil
	}
	if !json.Valid([]byte(inner)) {
		return Result{}, fmt.Errorf("%w: help search payload is not JSON", ErrInvalidResponse)
	}

	return Result{Kind: KindData, Data: json.RawMessage(inner)}, nil
}
