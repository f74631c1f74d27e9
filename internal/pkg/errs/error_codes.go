/*
Package errs provides custom error types and application-level error code constants.

The numeric codes identify business errors raised by the development backend. The
client core does not depend on them; it classifies failures by HTTP status (see Kind).
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Game Economy, Character and Room Errors
const (
	// ErrGameDataNotFound indicates the account has no game data yet.
	ErrGameDataNotFound = 2001

	// ErrGameDataExists indicates game data was already created for the account.
	ErrGameDataExists = 2002

	// ErrInsufficientCoins indicates the balance does not cover the price.
	ErrInsufficientCoins = 2003

	// ErrCharacterNotFound indicates an unknown character definition or owned character.
	ErrCharacterNotFound = 2101

	// ErrCharacterOwned indicates the character definition is already owned.
	ErrCharacterOwned = 2102

	// ErrInvalidFoodType indicates an unknown feeding option.
	ErrInvalidFoodType = 2103

	// ErrInvalidActivity indicates an unknown play activity.
	ErrInvalidActivity = 2104

	// ErrRoomNotFound indicates the account has no room yet.
	ErrRoomNotFound = 2201

	// ErrRoomExists indicates a room was already created for the account.
	ErrRoomExists = 2202

	// ErrRoomItemNotFound indicates an unknown item definition, owned item or placed item.
	ErrRoomItemNotFound = 2203

	// ErrRoomItemNotOwned indicates an attempt to place an item the account does not own.
	ErrRoomItemNotOwned = 2204

	// ErrRoomItemOwned indicates the item definition is already owned.
	ErrRoomItemOwned = 2205

	// ErrRoomItemPlaced indicates the owned item is already placed in the room.
	ErrRoomItemPlaced = 2206
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrEmailExists indicates the signup email is already registered.
	ErrEmailExists = 3001

	// ErrInvalidCredentials indicates a wrong email or password.
	ErrInvalidCredentials = 3002

	// ErrUnauthorized indicates a missing, invalid or revoked access token.
	ErrUnauthorized = 3003

	// ErrInvalidRefreshToken indicates the refresh token cannot be exchanged.
	ErrInvalidRefreshToken = 3004

	// ErrIncorrectPassword indicates the current password given for a password change is wrong.
	ErrIncorrectPassword = 3005
)

// 4xxx: Habit Errors
const (
	// ErrHabitNotFound indicates an unknown habit for the account.
	ErrHabitNotFound = 4001

	// ErrCompletionNotFound indicates an unknown completion of a habit.
	ErrCompletionNotFound = 4002

	// ErrHabitAlreadyCompleted indicates the habit was already completed today.
	ErrHabitAlreadyCompleted = 4003
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
