package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeAuth          ErrorType = "AUTH"
	TypeGit           ErrorType = "GIT"
	TypeAPI           ErrorType = "API"
	TypeTunnel        ErrorType = "TUNNEL"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if stderr, ok := e.Context["stderr"].(string); ok && stderr != "" {
			msg += fmt.Sprintf(" - %s", stderr)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches against the sentinel errors by type and message, so builders
// like WithError keep working with errors.Is
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// Configuration errors
var (
	ErrAPIKeyMissing = NewAppError(TypeConfiguration, "API key is missing", nil).
				WithSuggestion("Set your key first: matetest config set-api-key <key>")

	ErrRepoPathInvalid = NewAppError(TypeConfiguration, "Repository path does not exist", nil).
				WithSuggestion("Check the --repo flag points to an existing directory")
)

// API errors
var (
	ErrRetriesExhausted = NewAppError(TypeAPI, "Request failed after all retries", nil).
				WithSuggestion("Check your network connection and the service status page")
)

// Tunnel errors
var (
	ErrTunnelDaemonDown = NewAppError(TypeTunnel, "Tunnel daemon is not running", nil).
				WithSuggestion("Start the ngrok agent first: ngrok start --none")

	ErrTunnelTokenInvalid = NewAppError(TypeTunnel, "Tunnel auth token is invalid", nil).
				WithSuggestion("Set a valid token: matetest config set-tunnel-token <token>")

	ErrTunnelPortMissing = NewAppError(TypeTunnel, "Could not extract a port from the localhost URL", nil).
				WithSuggestion("Use an explicit port, e.g. http://localhost:3000")
)
