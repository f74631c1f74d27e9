/*
Package errs provides custom error types and application-level error code constants.

This file maps error codes to the CustomError returned to clients. Status defaults to
400 Bad Request when left unset.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters: %s"},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Game Economy, Character and Room Errors
	//
	// Only the per-account resources created on first use answer 404. The client treats
	// any other 404 as a vanished session.
	ErrGameDataNotFound:  {Code: ErrGameDataNotFound, Message: "Game data not found.", Status: http.StatusNotFound},
	ErrGameDataExists:    {Code: ErrGameDataExists, Message: "Game data already exists.", Status: http.StatusConflict},
	ErrInsufficientCoins: {Code: ErrInsufficientCoins, Message: "Not enough coins."},
	ErrCharacterNotFound: {Code: ErrCharacterNotFound, Message: "Character not found."},
	ErrCharacterOwned:    {Code: ErrCharacterOwned, Message: "You already own this character."},
	ErrInvalidFoodType:   {Code: ErrInvalidFoodType, Message: "Unknown food type."},
	ErrInvalidActivity:   {Code: ErrInvalidActivity, Message: "Unknown activity."},
	ErrRoomNotFound:      {Code: ErrRoomNotFound, Message: "Room not found.", Status: http.StatusNotFound},
	ErrRoomExists:        {Code: ErrRoomExists, Message: "Room already exists.", Status: http.StatusConflict},
	ErrRoomItemNotFound:  {Code: ErrRoomItemNotFound, Message: "Item not found."},
	ErrRoomItemNotOwned:  {Code: ErrRoomItemNotOwned, Message: "You do not own this item."},
	ErrRoomItemOwned:     {Code: ErrRoomItemOwned, Message: "You already own this item."},
	ErrRoomItemPlaced:    {Code: ErrRoomItemPlaced, Message: "This item is already placed."},

	// 3xxx: User, Session, and Security Errors
	ErrEmailExists:         {Code: ErrEmailExists, Message: "This email is already registered.", Status: http.StatusConflict},
	ErrInvalidCredentials:  {Code: ErrInvalidCredentials, Message: "Incorrect email or password."},
	ErrUnauthorized:        {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrInvalidRefreshToken: {Code: ErrInvalidRefreshToken, Message: "Session expired. Please sign in again.", Status: http.StatusUnauthorized},
	ErrIncorrectPassword:   {Code: ErrIncorrectPassword, Message: "Current password is incorrect."},

	// 4xxx: Habit Errors
	ErrHabitNotFound:         {Code: ErrHabitNotFound, Message: "Habit not found."},
	ErrCompletionNotFound:    {Code: ErrCompletionNotFound, Message: "Completion not found."},
	ErrHabitAlreadyCompleted: {Code: ErrHabitAlreadyCompleted, Message: "Habit already completed today.", Status: http.StatusConflict},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
