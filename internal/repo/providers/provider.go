package providers

import (
	"context"
	"errors"

	"github.com/nguyentranbao-ct/price-compare/internal/models"
)

// ProviderType identifies an upstream product search API.
type ProviderType string

const (
	ProviderTypeAmazon   ProviderType = "amazon"
	ProviderTypeFlipkart ProviderType = "flipkart"
)

// Provider searches one upstream API and returns normalized listings in the
// order the upstream ranked them, at most limit of them.
type Provider interface {
	Type() ProviderType
	Label() string
	Search(ctx context.Context, query string, limit int) ([]models.Product, error)
}

var (
	ErrMissingAPIKey    = errors.New("missing API key")
	ErrUpstreamStatus   = errors.New("upstream returned non-success status")
	ErrMalformedPayload = errors.New("malformed upstream payload")
	ErrNoUsableListing  = errors.New("no usable listing in upstream payload")
)

// ProviderError tags an error with the provider and operation it came from.
type ProviderError struct {
	Provider  ProviderType `json:"provider"`
	Operation string       `json:"operation"`
	Message   string       `json:"message"`
	Cause     error        `json:"-"`
}

func (e *ProviderError) Error() string {
	msg := string(e.Provider) + " " + e.Operation + ": " + e.Message
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

func NewProviderError(provider ProviderType, operation, message string, cause error) *ProviderError {
	return &ProviderError{
		Provider:  provider,
		Operation: operation,
		Message:   message,
		Cause:     cause,
	}
}

// Reason maps an error to the short text shown in a failed column.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrMissingAPIKey):
		return "not configured"
	case errors.Is(err, ErrUpstreamStatus):
		return "upstream error"
	case errors.Is(err, ErrMalformedPayload), errors.Is(err, ErrNoUsableListing):
		return "unexpected response"
	default:
		return "unavailable"
	}
}

// RapidAPIHeaders are the gateway headers every provider request carries.
func RapidAPIHeaders(apiKey, host string) map[string]string {
	return map[string]string{
		"Accept":          "application/json",
		"x-rapidapi-key":  apiKey,
		"x-rapidapi-host": host,
	}
}
