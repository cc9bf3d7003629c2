/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

package fite

import (
	"errors"
	"fmt"
)

// Code classifies why an engine operation failed. Adapters switch on the
// Code to decide what to tell the user.
type Code int

const (
	CodeUnknown Code = iota
	NotRegistered
	AlreadyRegistered
	InvalidName
	UnknownGame
	GameTitleTaken
	GameShorthandTaken
	GameInUse
	SelfReference
	AlreadyInMatch
	NoCurrentMatch
	WrongRole
	WrongState
	NoPendingVictor
	GenreNotFound
	GenreDuplicate
	GenreAlreadyOnGame
	GenreNotOnGame
	GenreSlotsFull
	PersistenceFailure
	CalculationFailed
)

var codeNames = map[Code]string{
	CodeUnknown:        "unknown",
	NotRegistered:      "not registered",
	AlreadyRegistered:  "already registered",
	InvalidName:        "invalid name",
	UnknownGame:        "unknown game",
	GameTitleTaken:     "game title taken",
	GameShorthandTaken: "game shorthand taken",
	GameInUse:          "game in use",
	SelfReference:      "self reference",
	AlreadyInMatch:     "already in match",
	NoCurrentMatch:     "no current match",
	WrongRole:          "wrong role",
	WrongState:         "wrong state",
	NoPendingVictor:    "no pending victor",
	GenreNotFound:      "genre not found",
	GenreDuplicate:     "genre duplicate",
	GenreAlreadyOnGame: "genre already on game",
	GenreNotOnGame:     "genre not on game",
	GenreSlotsFull:     "genre slots full",
	PersistenceFailure: "persistence failure",
	CalculationFailed:  "calculation failed",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Error is returned by every Engine operation that fails.
//
// A PersistenceFailure means the durable save did not complete. The engine
// restores its in-memory state to what it was before the operation, so the
// caller may simply retry.
type Error struct {
	Op      string
	Code    Code
	Subject string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("fite.%v: %v", e.Op, e.Code)
	if e.Subject != "" {
		msg = fmt.Sprintf("%v: %v", msg, e.Subject)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%v: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Code, so callers can write
// errors.Is(err, fite.ErrWrongRole).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrNotRegistered      = &Error{Code: NotRegistered}
	ErrAlreadyRegistered  = &Error{Code: AlreadyRegistered}
	ErrInvalidName        = &Error{Code: InvalidName}
	ErrUnknownGame        = &Error{Code: UnknownGame}
	ErrGameTitleTaken     = &Error{Code: GameTitleTaken}
	ErrGameShorthandTaken = &Error{Code: GameShorthandTaken}
	ErrGameInUse          = &Error{Code: GameInUse}
	ErrSelfReference      = &Error{Code: SelfReference}
	ErrAlreadyInMatch     = &Error{Code: AlreadyInMatch}
	ErrNoCurrentMatch     = &Error{Code: NoCurrentMatch}
	ErrWrongRole          = &Error{Code: WrongRole}
	ErrWrongState         = &Error{Code: WrongState}
	ErrNoPendingVictor    = &Error{Code: NoPendingVictor}
	ErrGenreNotFound      = &Error{Code: GenreNotFound}
	ErrGenreDuplicate     = &Error{Code: GenreDuplicate}
	ErrGenreAlreadyOnGame = &Error{Code: GenreAlreadyOnGame}
	ErrGenreNotOnGame     = &Error{Code: GenreNotOnGame}
	ErrGenreSlotsFull     = &Error{Code: GenreSlotsFull}
	ErrPersistence        = &Error{Code: PersistenceFailure}
	ErrCalculation        = &Error{Code: CalculationFailed}
)

// CodeOf returns the Code carried by err, or CodeUnknown.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

func newError(op string, code Code, subject string) *Error {
	return &Error{Op: op, Code: code, Subject: subject}
}
