// Package domain contains core concepts of the team system.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"reflect"

	"github.com/google/uuid"
)

// Entity is any participant known to the identity system.
// Implementations must be comparable, pointers in practice,
// since members are deduplicated by participant reference.
type Entity interface {
	UUID() uuid.UUID
}

// Messenger can receive direct messages.
type Messenger interface {
	SendMessage(message Component)
}

// Player is an Entity that has a username and an inbox.
type Player interface {
	Entity
	Messenger
	Username() string
}

// Hashable reports whether v can key a map: non-nil and of a comparable
// dynamic type. A struct value holding a slice, for instance, is not.
func Hashable(v any) bool {
	return v != nil && reflect.TypeOf(v).Comparable()
}
