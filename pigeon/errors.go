package pigeon

import "fmt"

const (
	AlreadyConnectedError = iota

	AuthenticationError

	ConfigurationError

	ConnectionError

	ConnectionRefusedError

	DisconnectedError

	InvalidURIError

	MessageHandlerError

	NotAuthenticatedError

	ProtocolError

	RequestError

	ServerError

	TimedOutError

	UnknownError
)

// NewError builds a typed pigeon error from an error code constant and an
// optional detail value.
func NewError(errorCode int, message ...interface{}) error {
	var errorName string

	switch errorCode {
	case AlreadyConnectedError:
		errorName = "AlreadyConnectedError"
	case AuthenticationError:
		errorName = "AuthenticationError"
	case ConfigurationError:
		errorName = "ConfigurationError"
	case ConnectionError:
		errorName = "ConnectionError"
	case ConnectionRefusedError:
		errorName = "ConnectionRefusedError"
	case DisconnectedError:
		errorName = "DisconnectedError"
	case InvalidURIError:
		errorName = "InvalidURIError"
	case MessageHandlerError:
		errorName = "MessageHandlerError"
	case NotAuthenticatedError:
		errorName = "NotAuthenticatedError"
	case ProtocolError:
		errorName = "ProtocolError"
	case RequestError:
		errorName = "RequestError"
	case ServerError:
		errorName = "ServerError"
	case TimedOutError:
		errorName = "TimedOutError"
	default:
		errorName = "UnknownError"
	}

	if len(message) > 0 {
		return fmt.Errorf("%s: %s", errorName, message[0])
	}

	return fmt.Errorf("%s", errorName)
}
