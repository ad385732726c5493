package purelymail

import "fmt"

// TransportError is a non-2xx HTTP response whose body did not carry a
// well-formed provider error envelope.
type TransportError struct {
	StatusCode int
	Status     string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("purelymail: request failed: %s", e.Status)
}

// ProviderError is a business-logic rejection carried in the response
// envelope. It is authoritative regardless of the HTTP status.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("purelymail: %s: %s", e.Code, e.Message)
}
