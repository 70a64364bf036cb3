// Package protocol owns the transport side of team packets.
//
// Ownership boundary:
// - rule enum to wire discriminant lookup tables
// - packet encoding and decoding
package protocol

import (
	"fmt"
	"team-lab/domain"
	"team-lab/errors"

	"github.com/samber/lo"
)

var collisionRules = map[domain.CollisionRule]string{
	domain.CollisionAlways:         "always",
	domain.CollisionPushOtherTeams: "pushOtherTeams",
	domain.CollisionPushOwnTeam:    "pushOwnTeam",
	domain.CollisionNever:          "never",
}

var tagVisibilities = map[domain.TagVisibility]string{
	domain.TagAlways:            "always",
	domain.TagHideForOtherTeams: "hideForOtherTeams",
	domain.TagHideForOwnTeam:    "hideForOwnTeam",
	domain.TagNever:             "never",
}

var (
	collisionRulesByWire  = lo.Invert(collisionRules)
	tagVisibilitiesByWire = lo.Invert(tagVisibilities)
)

func CollisionRuleWire(rule domain.CollisionRule) (string, error) {
	wire, ok := collisionRules[rule]
	if !ok {
		return "", fmt.Errorf("%w: collision rule %d", errors.ErrUnknownDiscriminant, rule)
	}
	return wire, nil
}

func ParseCollisionRule(wire string) (domain.CollisionRule, error) {
	rule, ok := collisionRulesByWire[wire]
	if !ok {
		return 0, fmt.Errorf("%w: collision rule %q", errors.ErrUnknownDiscriminant, wire)
	}
	return rule, nil
}

func TagVisibilityWire(visibility domain.TagVisibility) (string, error) {
	wire, ok := tagVisibilities[visibility]
	if !ok {
		return "", fmt.Errorf("%w: tag visibility %d", errors.ErrUnknownDiscriminant, visibility)
	}
	return wire, nil
}

func ParseTagVisibility(wire string) (domain.TagVisibility, error) {
	visibility, ok := tagVisibilitiesByWire[wire]
	if !ok {
		return 0, fmt.Errorf("%w: tag visibility %q", errors.ErrUnknownDiscriminant, wire)
	}
	return visibility, nil
}

// ColorID is the numeric id of a named colour on the wire.
func ColorID(color domain.NamedColor) (uint64, error) {
	if !color.Valid() {
		return 0, fmt.Errorf("%w: color %d", errors.ErrUnknownDiscriminant, color)
	}
	return uint64(color), nil
}

func ParseColorID(id uint64) (domain.NamedColor, error) {
	color := domain.NamedColor(id)
	if id > uint64(domain.White) {
		return 0, fmt.Errorf("%w: color id %d", errors.ErrUnknownDiscriminant, id)
	}
	return color, nil
}
