package protocol

import (
	"fmt"
	"team-lab/domain"
	"team-lab/errors"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of an encoded packet. Text components travel as their
// content; the game's own text serialization is the transport's concern.
const (
	fieldTeam          protowire.Number = 1
	fieldMode          protowire.Number = 2
	fieldDisplayName   protowire.Number = 3
	fieldFlags         protowire.Number = 4
	fieldTagVisibility protowire.Number = 5
	fieldCollisionRule protowire.Number = 6
	fieldColor         protowire.Number = 7
	fieldPrefix        protowire.Number = 8
	fieldSuffix        protowire.Number = 9
	fieldMembers       protowire.Number = 10
)

// Encode serializes packet in protobuf wire format.
func Encode(packet domain.Packet) ([]byte, error) {
	if packet.Action == nil {
		return nil, fmt.Errorf("%w: no action", errors.ErrMalformedPacket)
	}
	var b []byte
	b = appendString(b, fieldTeam, packet.Team)
	b = appendVarint(b, fieldMode, uint64(packet.Mode()))

	var err error
	switch action := packet.Action.(type) {
	case domain.CreateTeamAction:
		if b, err = appendInfo(b, action.TeamInfo); err != nil {
			return nil, err
		}
		b = appendMembers(b, action.Members)
	case domain.UpdateTeamAction:
		if b, err = appendInfo(b, action.TeamInfo); err != nil {
			return nil, err
		}
	case domain.AddMembersAction:
		b = appendMembers(b, action.Members)
	case domain.RemoveMembersAction:
		b = appendMembers(b, action.Members)
	case domain.RemoveTeamAction:
	default:
		return nil, fmt.Errorf("%w: %T", errors.ErrUnknownMode, action)
	}
	return b, nil
}

func appendInfo(b []byte, info domain.TeamInfo) ([]byte, error) {
	tag, err := TagVisibilityWire(info.TagVisibility)
	if err != nil {
		return nil, err
	}
	collision, err := CollisionRuleWire(info.CollisionRule)
	if err != nil {
		return nil, err
	}
	color, err := ColorID(info.Color)
	if err != nil {
		return nil, err
	}
	b = appendString(b, fieldDisplayName, info.DisplayName.Content())
	b = appendVarint(b, fieldFlags, uint64(info.Flags))
	b = appendString(b, fieldTagVisibility, tag)
	b = appendString(b, fieldCollisionRule, collision)
	b = appendVarint(b, fieldColor, color)
	b = appendString(b, fieldPrefix, info.Prefix.Content())
	b = appendString(b, fieldSuffix, info.Suffix.Content())
	return b, nil
}

func appendMembers(b []byte, members []string) []byte {
	for _, m := range members {
		b = appendString(b, fieldMembers, m)
	}
	return b
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// decoded holds raw field values before the action is assembled.
type decoded struct {
	team          string
	mode          uint64
	displayName   string
	flags         uint64
	tagVisibility string
	collisionRule string
	color         uint64
	prefix        string
	suffix        string
	members       []string
}

// Decode parses bytes produced by Encode. Unknown fields are skipped.
func Decode(b []byte) (domain.Packet, error) {
	var d decoded
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return domain.Packet{}, fmt.Errorf("%w: %v", errors.ErrMalformedPacket, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case typ == protowire.VarintType && isVarintField(num):
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return domain.Packet{}, fmt.Errorf("%w: %v", errors.ErrMalformedPacket, protowire.ParseError(n))
			}
			d.setVarint(num, v)
			b = b[n:]
		case typ == protowire.BytesType && !isVarintField(num):
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return domain.Packet{}, fmt.Errorf("%w: %v", errors.ErrMalformedPacket, protowire.ParseError(n))
			}
			d.setString(num, v)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return domain.Packet{}, fmt.Errorf("%w: %v", errors.ErrMalformedPacket, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return d.packet()
}

func isVarintField(num protowire.Number) bool {
	return num == fieldMode || num == fieldFlags || num == fieldColor
}

func (d *decoded) setVarint(num protowire.Number, v uint64) {
	switch num {
	case fieldMode:
		d.mode = v
	case fieldFlags:
		d.flags = v
	case fieldColor:
		d.color = v
	}
}

func (d *decoded) setString(num protowire.Number, v string) {
	switch num {
	case fieldTeam:
		d.team = v
	case fieldDisplayName:
		d.displayName = v
	case fieldTagVisibility:
		d.tagVisibility = v
	case fieldCollisionRule:
		d.collisionRule = v
	case fieldPrefix:
		d.prefix = v
	case fieldSuffix:
		d.suffix = v
	case fieldMembers:
		d.members = append(d.members, v)
	}
}

func (d *decoded) packet() (domain.Packet, error) {
	packet := domain.Packet{Team: d.team}
	members := d.members
	if members == nil {
		members = []string{}
	}

	switch domain.Mode(d.mode) {
	case domain.ModeCreate:
		info, err := d.info()
		if err != nil {
			return domain.Packet{}, err
		}
		packet.Action = domain.CreateTeamAction{TeamInfo: info, Members: members}
	case domain.ModeRemove:
		packet.Action = domain.RemoveTeamAction{}
	case domain.ModeUpdate:
		info, err := d.info()
		if err != nil {
			return domain.Packet{}, err
		}
		packet.Action = domain.UpdateTeamAction{TeamInfo: info}
	case domain.ModeAddMembers:
		packet.Action = domain.AddMembersAction{Members: members}
	case domain.ModeRemoveMembers:
		packet.Action = domain.RemoveMembersAction{Members: members}
	default:
		return domain.Packet{}, fmt.Errorf("%w: %d", errors.ErrUnknownMode, d.mode)
	}
	return packet, nil
}

func (d *decoded) info() (domain.TeamInfo, error) {
	tag, err := ParseTagVisibility(d.tagVisibility)
	if err != nil {
		return domain.TeamInfo{}, err
	}
	collision, err := ParseCollisionRule(d.collisionRule)
	if err != nil {
		return domain.TeamInfo{}, err
	}
	color, err := ParseColorID(d.color)
	if err != nil {
		return domain.TeamInfo{}, err
	}
	if d.flags > 0x03 {
		return domain.TeamInfo{}, fmt.Errorf("%w: flags %#x", errors.ErrMalformedPacket, d.flags)
	}
	return domain.TeamInfo{
		DisplayName:   domain.Text(d.displayName),
		Flags:         byte(d.flags),
		TagVisibility: tag,
		CollisionRule: collision,
		Color:         color,
		Prefix:        domain.Text(d.prefix),
		Suffix:        domain.Text(d.suffix),
	}, nil
}
