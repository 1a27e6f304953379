package services

// Error types returned by the service layer. Handlers map them onto
// HTTP statuses in handleServiceError.

type InvalidInputError struct{ Message string }

func (e *InvalidInputError) Error() string { return e.Message }

type CapacityError struct{ Message string }

func (e *CapacityError) Error() string { return e.Message }

// AIMalformedError means the provider's output could not be parsed as
// JSON. Raw carries the offending text for development-mode details.
type AIMalformedError struct {
	Message string
	Raw     string
}

func (e *AIMalformedError) Error() string { return e.Message }

// AIInvalidError means the output parsed but the deck shape is wrong:
// no cards, or a card missing a required field.
type AIInvalidError struct{ Message string }

func (e *AIInvalidError) Error() string { return e.Message }

// AIUnavailableError is a transport-level provider failure, kept
// distinct from parse and shape failures.
type AIUnavailableError struct {
	Message string
	Err     error
}

func (e *AIUnavailableError) Error() string { return e.Message }

func (e *AIUnavailableError) Unwrap() error { return e.Err }

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }
