package repositories

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"team-lab/contract"
	"team-lab/domain"
	"team-lab/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	packetKeyPrefix = "pkt"
	keySeparator    = "\x00"

	valueAt     protowire.Number = 1
	valueMode   protowire.Number = 2
	valuePacket protowire.Number = 3
)

// PacketRepository journals the packets handed to each viewer.
// It records traffic for inspection; it does not persist teams.
type PacketRepository struct {
	db           *badger.DB
	log          *slog.Logger
	limitPackets *int
	seq          *atomic.Uint64
}

func NewPacketRepository(db *badger.DB, log *slog.Logger, limitPackets *int) PacketRepository {
	seq := &atomic.Uint64{}
	seq.Store(uint64(time.Now().UnixNano()))
	return PacketRepository{db: db, log: log, limitPackets: limitPackets, seq: seq}
}

// JournalPrefix is the key prefix shared by every journal entry.
func JournalPrefix() string {
	return packetKeyPrefix + keySeparator
}

// ViewerPrefix is the key prefix of every stream of one viewer.
func ViewerPrefix(viewer string) string {
	return JournalPrefix() + viewer + keySeparator
}

// PacketPrefix is the key prefix of a viewer's stream for one team.
// Team names are printable ASCII so the NUL separator cannot collide.
func PacketPrefix(viewer, team string) string {
	return ViewerPrefix(viewer) + team + keySeparator
}

// StorePacket persists an entry under "pkt\x00{viewer}\x00{team}\x00{seq}".
// The sequence is 19-digit zero padded so that keys sort in arrival order.
func (r PacketRepository) StorePacket(entry contract.JournalEntry) error {
	entry.Seq = r.seq.Add(1)
	key := fmt.Sprintf("%s%019d", PacketPrefix(entry.Viewer, entry.Team), entry.Seq)

	var value []byte
	value = protowire.AppendTag(value, valueAt, protowire.VarintType)
	value = protowire.AppendVarint(value, uint64(entry.At))
	value = protowire.AppendTag(value, valueMode, protowire.VarintType)
	value = protowire.AppendVarint(value, uint64(entry.Mode))
	value = protowire.AppendTag(value, valuePacket, protowire.BytesType)
	value = protowire.AppendBytes(value, entry.Bytes)

	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// GetPackets retrieves a viewer's packets for a team, newest first.
// It stops once the configured limit is reached; the returned cursor
// resumes right after the last entry.
func (r PacketRepository) GetPackets(viewer, team string, cursor *string) ([]contract.JournalEntry, *string, error) {
	var entries []contract.JournalEntry
	var lastKey string
	err := r.db.View(func(txn *badger.Txn) error {
		prefixStr := PacketPrefix(viewer, team)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			seekKey = append([]byte(prefixStr), []byte("9999999999999999999")...)
		default:
			seekKey = append([]byte(prefixStr), []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()[prefixLen:]) == *cursor {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if r.limitPackets != nil && len(entries) == *r.limitPackets {
				r.log.Debug(fmt.Sprintf("Maximum of %d packets reached", *r.limitPackets))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[prefixLen:])
			seq, err := strconv.ParseUint(lastKey, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: key %q", errors.ErrMalformedPacket, item.Key())
			}
			err = item.Value(func(value []byte) error {
				entry, err := DecodeEntry(value)
				if err != nil {
					return err
				}
				entry.Viewer, entry.Team, entry.Seq = viewer, team, seq
				entries = append(entries, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return entries, &lastKey, nil
}

// ParsePacketKey splits a journal key into viewer, team and sequence.
func ParsePacketKey(key []byte) (viewer, team string, seq uint64, err error) {
	parts := strings.Split(string(key), keySeparator)
	if len(parts) != 4 || parts[0] != packetKeyPrefix {
		return "", "", 0, fmt.Errorf("%w: key %q", errors.ErrMalformedPacket, key)
	}
	seq, err = strconv.ParseUint(parts[3], 10, 64)
	if err != nil {
		return "", "", 0, fmt.Errorf("%w: key %q", errors.ErrMalformedPacket, key)
	}
	return parts[1], parts[2], seq, nil
}

// DecodeEntry decodes a stored journal value. Viewer, team and sequence
// come from the key.
func DecodeEntry(value []byte) (contract.JournalEntry, error) {
	var entry contract.JournalEntry
	for len(value) > 0 {
		num, typ, n := protowire.ConsumeTag(value)
		if n < 0 {
			return entry, fmt.Errorf("%w: %v", errors.ErrMalformedPacket, protowire.ParseError(n))
		}
		value = value[n:]
		switch {
		case num == valueAt && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(value)
			if n < 0 {
				return entry, fmt.Errorf("%w: %v", errors.ErrMalformedPacket, protowire.ParseError(n))
			}
			entry.At = int64(v)
			value = value[n:]
		case num == valueMode && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(value)
			if n < 0 {
				return entry, fmt.Errorf("%w: %v", errors.ErrMalformedPacket, protowire.ParseError(n))
			}
			entry.Mode = domain.Mode(v)
			value = value[n:]
		case num == valuePacket && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(value)
			if n < 0 {
				return entry, fmt.Errorf("%w: %v", errors.ErrMalformedPacket, protowire.ParseError(n))
			}
			entry.Bytes = append([]byte(nil), v...)
			value = value[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, value)
			if n < 0 {
				return entry, fmt.Errorf("%w: %v", errors.ErrMalformedPacket, protowire.ParseError(n))
			}
			value = value[n:]
		}
	}
	return entry, nil
}
