package protocol

import (
	"team-lab/domain"
	"team-lab/errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func sampleInfo() domain.TeamInfo {
	return domain.InfoOf(domain.NewMetaBuilder().
		DisplayName(domain.Text("Red team")).
		Prefix(domain.Text("[R] ")).
		Suffix(domain.Text(" *")).
		Color(domain.Red).
		CollisionRule(domain.CollisionPushOtherTeams).
		TagVisibility(domain.TagHideForOwnTeam).
		CanSeeFriendlyInvisibles(true).
		Build())
}

func TestCodec_Encode_Decode_Every_Mode(t *testing.T) {
	req := require.New(t)
	packets := []domain.Packet{
		{Team: "red", Action: domain.CreateTeamAction{TeamInfo: sampleInfo(), Members: []string{"alice", "bob"}}},
		{Team: "red", Action: domain.CreateTeamAction{TeamInfo: domain.InfoOf(domain.DefaultMeta()), Members: []string{}}},
		{Team: "red", Action: domain.RemoveTeamAction{}},
		{Team: "red", Action: domain.UpdateTeamAction{TeamInfo: sampleInfo()}},
		{Team: "red", Action: domain.AddMembersAction{Members: []string{"carol"}}},
		{Team: "red", Action: domain.RemoveMembersAction{Members: []string{"alice", "carol"}}},
	}

	for _, packet := range packets {
		// When the packet goes through the wire
		b, err := Encode(packet)
		req.NoError(err, packet.Mode().String())
		decoded, err := Decode(b)

		// Then it comes back unchanged
		req.NoError(err, packet.Mode().String())
		req.Equal(packet, decoded)
	}
}

func TestCodec_Mode_Is_Wire_Discriminant(t *testing.T) {
	req := require.New(t)

	b, err := Encode(domain.Packet{Team: "g", Action: domain.RemoveMembersAction{Members: []string{"x"}}})
	req.NoError(err)

	// Skip the team field, then read the mode
	_, _, n := protowire.ConsumeField(b)
	req.Positive(n)
	num, typ, m := protowire.ConsumeTag(b[n:])
	req.Positive(m)
	req.Equal(fieldMode, num)
	req.Equal(protowire.VarintType, typ)
	mode, _ := protowire.ConsumeVarint(b[n+m:])
	req.Equal(uint64(4), mode)
}

func TestCodec_Encode_Rejects_Missing_Action(t *testing.T) {
	req := require.New(t)

	_, err := Encode(domain.Packet{Team: "g"})
	req.ErrorIs(err, errors.ErrMalformedPacket)
}

func TestCodec_Encode_Rejects_Unknown_Discriminant(t *testing.T) {
	req := require.New(t)
	info := sampleInfo()
	info.Color = domain.NamedColor(42)

	_, err := Encode(domain.Packet{Team: "g", Action: domain.UpdateTeamAction{TeamInfo: info}})
	req.ErrorIs(err, errors.ErrUnknownDiscriminant)
}

func TestCodec_Decode_Skips_Unknown_Fields(t *testing.T) {
	req := require.New(t)
	packet := domain.Packet{Team: "g", Action: domain.AddMembersAction{Members: []string{"a"}}}
	b, err := Encode(packet)
	req.NoError(err)

	// Given a field a newer encoder might add
	b = protowire.AppendTag(b, 99, protowire.VarintType)
	b = protowire.AppendVarint(b, 7)

	decoded, err := Decode(b)
	req.NoError(err)
	req.Equal(packet, decoded)
}

func TestCodec_Decode_Errors(t *testing.T) {
	req := require.New(t)

	// Truncated input
	b, err := Encode(domain.Packet{Team: "green", Action: domain.RemoveTeamAction{}})
	req.NoError(err)
	_, err = Decode(b[:3])
	req.ErrorIs(err, errors.ErrMalformedPacket)

	// Unknown mode
	var unknown []byte
	unknown = appendString(unknown, fieldTeam, "g")
	unknown = appendVarint(unknown, fieldMode, 9)
	_, err = Decode(unknown)
	req.ErrorIs(err, errors.ErrUnknownMode)

	// Unknown collision rule
	var rule []byte
	rule = appendVarint(rule, fieldMode, uint64(domain.ModeUpdate))
	rule = appendString(rule, fieldTagVisibility, "always")
	rule = appendString(rule, fieldCollisionRule, "sometimes")
	_, err = Decode(rule)
	req.ErrorIs(err, errors.ErrUnknownDiscriminant)

	// Flags beyond the two known bits
	var flags []byte
	flags = appendVarint(flags, fieldMode, uint64(domain.ModeUpdate))
	flags = appendString(flags, fieldTagVisibility, "always")
	flags = appendString(flags, fieldCollisionRule, "always")
	flags = appendVarint(flags, fieldFlags, 0x04)
	_, err = Decode(flags)
	req.ErrorIs(err, errors.ErrMalformedPacket)
}
