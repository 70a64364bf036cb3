// Package domain contains core concepts of the team system.
// This file defines the immutable team metadata and its builder.
// No runtime, network, or UI logic should be added here.
package domain

const (
	flagFriendlyFire          byte = 0x01
	flagSeeFriendlyInvisibles byte = 0x02
)

// Meta is an immutable snapshot of a team's display settings.
// It is only produced by a MetaBuilder; replacing a team's metadata
// means building a new Meta and swapping it.
type Meta struct {
	collisionRule            CollisionRule
	tagVisibility            TagVisibility
	prefix                   Component
	suffix                   Component
	displayName              Component
	color                    NamedColor
	allowFriendlyFire        bool
	canSeeFriendlyInvisibles bool
}

// DefaultMeta returns the metadata of an empty builder.
func DefaultMeta() Meta {
	return NewMetaBuilder().Build()
}

func (m Meta) CollisionRule() CollisionRule { return m.collisionRule }
func (m Meta) TagVisibility() TagVisibility { return m.tagVisibility }
func (m Meta) Prefix() Component { return m.prefix }
func (m Meta) Suffix() Component { return m.suffix }
func (m Meta) DisplayName() Component { return m.displayName }
func (m Meta) Color() NamedColor { return m.color }
func (m Meta) AllowFriendlyFire() bool { return m.allowFriendlyFire }
func (m Meta) CanSeeFriendlyInvisibles() bool { return m.canSeeFriendlyInvisibles }

// FriendlyFlags packs the two friendly booleans into the wire bitfield:
// bit 0 friendly fire allowed, bit 1 can see friendly invisibles.
func FriendlyFlags(m Meta) byte {
	var flags byte
	if m.allowFriendlyFire {
		flags |= flagFriendlyFire
	}
	if m.canSeeFriendlyInvisibles {
		flags |= flagSeeFriendlyInvisibles
	}
	return flags
}

// MetaBuilder accumulates metadata fields. Build does not consume it.
type MetaBuilder struct {
	meta Meta
}

func NewMetaBuilder() *MetaBuilder {
	return &MetaBuilder{meta: Meta{
		collisionRule:            CollisionAlways,
		tagVisibility:            TagAlways,
		prefix:                   Empty(),
		suffix:                   Empty(),
		displayName:              Empty(),
		color:                    White,
		allowFriendlyFire:        true,
		canSeeFriendlyInvisibles: false,
	}}
}

// MetaBuilderFrom seeds a builder with every field of meta.
func MetaBuilderFrom(meta Meta) *MetaBuilder {
	return &MetaBuilder{meta: meta}
}

func (b *MetaBuilder) Build() Meta {
	return b.meta
}

func (b *MetaBuilder) CollisionRule(rule CollisionRule) *MetaBuilder {
	b.meta.collisionRule = rule
	return b
}

func (b *MetaBuilder) TagVisibility(visibility TagVisibility) *MetaBuilder {
	b.meta.tagVisibility = visibility
	return b
}

func (b *MetaBuilder) Prefix(prefix Component) *MetaBuilder {
	b.meta.prefix = prefix
	return b
}

func (b *MetaBuilder) Suffix(suffix Component) *MetaBuilder {
	b.meta.suffix = suffix
	return b
}

func (b *MetaBuilder) DisplayName(displayName Component) *MetaBuilder {
	b.meta.displayName = displayName
	return b
}

func (b *MetaBuilder) Color(color NamedColor) *MetaBuilder {
	b.meta.color = color
	return b
}

func (b *MetaBuilder) AllowFriendlyFire(allow bool) *MetaBuilder {
	b.meta.allowFriendlyFire = allow
	return b
}

func (b *MetaBuilder) EnableFriendlyFire() *MetaBuilder {
	return b.AllowFriendlyFire(true)
}

func (b *MetaBuilder) DisableFriendlyFire() *MetaBuilder {
	return b.AllowFriendlyFire(false)
}

func (b *MetaBuilder) CanSeeFriendlyInvisibles(canSee bool) *MetaBuilder {
	b.meta.canSeeFriendlyInvisibles = canSee
	return b
}
