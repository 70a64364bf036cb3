package main

import (
	"log/slog"
	"team-lab/domain"

	"github.com/google/uuid"
)

// player stands in for a connected game player.
type player struct {
	id       uuid.UUID
	username string
	log      *slog.Logger
}

func newPlayer(username string, log *slog.Logger) *player {
	return &player{id: uuid.New(), username: username, log: log}
}

func (p *player) UUID() uuid.UUID { return p.id }

func (p *player) Username() string { return p.username }

func (p *player) SendMessage(message domain.Component) {
	p.log.Info("Message received", "player", p.username, "content", message.Content())
}

// entity stands in for a non-player entity such as a mob or an armor stand.
type entity struct {
	id uuid.UUID
}

func newEntity() *entity {
	return &entity{id: uuid.New()}
}

func (e *entity) UUID() uuid.UUID { return e.id }
