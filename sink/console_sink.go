package sink

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"team-lab/domain"

	"github.com/gookit/color"
)

var namedStyles = map[domain.NamedColor]color.Style{
	domain.Black:       color.New(color.FgBlack),
	domain.DarkBlue:    color.New(color.FgBlue),
	domain.DarkGreen:   color.New(color.FgGreen),
	domain.DarkAqua:    color.New(color.FgCyan),
	domain.DarkRed:     color.New(color.FgRed),
	domain.DarkPurple:  color.New(color.FgMagenta),
	domain.Gold:        color.New(color.FgYellow),
	domain.Gray:        color.New(color.FgWhite),
	domain.DarkGray:    color.New(color.FgDarkGray),
	domain.Blue:        color.New(color.FgLightBlue),
	domain.Green:       color.New(color.FgLightGreen),
	domain.Aqua:        color.New(color.FgLightCyan),
	domain.Red:         color.New(color.FgLightRed),
	domain.LightPurple: color.New(color.FgLightMagenta),
	domain.Yellow:      color.New(color.FgLightYellow),
	domain.White:       color.New(color.FgLightWhite),
}

// ConsoleSink prints one line per packet, coloured with the team colour
// once a create or update packet made it known.
type ConsoleSink struct {
	mu     sync.Mutex
	out    io.Writer
	colors map[string]domain.NamedColor // map viewer/team -> last known colour
}

func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{out: out, colors: make(map[string]domain.NamedColor)}
}

func (*ConsoleSink) Name() string { return "console" }

func (c *ConsoleSink) Consume(_ context.Context, viewerID string, packet domain.Packet) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := viewerID + "/" + packet.Team
	var detail string
	switch action := packet.Action.(type) {
	case domain.CreateTeamAction:
		c.colors[key] = action.Color
		detail = fmt.Sprintf("%s members=[%s]", describe(action.TeamInfo), strings.Join(action.Members, " "))
	case domain.UpdateTeamAction:
		c.colors[key] = action.Color
		detail = describe(action.TeamInfo)
	case domain.AddMembersAction:
		detail = fmt.Sprintf("+[%s]", strings.Join(action.Members, " "))
	case domain.RemoveMembersAction:
		detail = fmt.Sprintf("-[%s]", strings.Join(action.Members, " "))
	case domain.RemoveTeamAction:
		delete(c.colors, key)
	}

	team := packet.Team
	if named, ok := c.colors[key]; ok {
		team = namedStyles[named].Render(team)
	}
	_, err := fmt.Fprintf(c.out, "[%s] %s %s %s\n", viewerID, team, packet.Mode(), detail)
	return err
}

func describe(info domain.TeamInfo) string {
	return fmt.Sprintf("display=%q prefix=%q suffix=%q color=%s flags=0x%02x tags=%s collision=%s",
		info.DisplayName.Content(), info.Prefix.Content(), info.Suffix.Content(),
		info.Color, info.Flags, info.TagVisibility, info.CollisionRule)
}
