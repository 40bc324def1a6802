package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrInvalidJSONFormat indicates a frame or body that is not valid JSON.
	ErrInvalidJSONFormat = 1003

	// ErrRateLimitExceeded indicates that the request or event rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Room and Event Errors
const (
	// ErrRoomNotFound indicates that no user is currently present in the requested room.
	ErrRoomNotFound = 2103

	// ErrUnsupportedEvent indicates an inbound event name with no registered handler.
	ErrUnsupportedEvent = 2301

	// ErrInvalidEventPayload indicates an inbound event whose payload has the wrong shape.
	ErrInvalidEventPayload = 2302

	// ErrMissingRoomID indicates an inbound event without a room identifier.
	ErrMissingRoomID = 2303
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
