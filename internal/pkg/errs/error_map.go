package errs

import "net/http"

// errorMap holds the template CustomError for every known code.
// A zero Status is reported as 200 OK by NewError.
var errorMap = map[int]CustomError{
	ErrInvalidParams:     {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrInvalidJSONFormat: {Code: ErrInvalidJSONFormat, Message: "Malformed JSON."},
	ErrRateLimitExceeded: {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	ErrRoomNotFound:        {Code: ErrRoomNotFound, Message: "Room not found.", Status: http.StatusNotFound},
	ErrUnsupportedEvent:    {Code: ErrUnsupportedEvent, Message: "Unsupported event %q."},
	ErrInvalidEventPayload: {Code: ErrInvalidEventPayload, Message: "Invalid payload for event %q."},
	ErrMissingRoomID:       {Code: ErrMissingRoomID, Message: "Event %q is missing a room id."},

	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
