// Package match aligns two reprocessings of the same events and compares
// their jets one by one.
package match

import (
	"context"
	"log/slog"
	"sort"

	"github.com/pkg/errors"

	"github.com/hatakeyamak/JetMET/event"
)

// Index maps an event identity to its position in a stream.
type Index struct {
	Positions  map[event.ID]int64
	Duplicates int
}

// BuildIndex scans s once. A repeated key overwrites the earlier position,
// so the last occurrence wins. maxEvents limits the scan when positive.
func BuildIndex(ctx context.Context, s event.Stream, maxEvents int, logger *slog.Logger) (Index, error) {
	idx := Index{Positions: make(map[event.ID]int64)}
	count := 0
	err := s.Scan(ctx, func(pos int64, key event.Key) error {
		id := key.ID()
		if prev, dup := idx.Positions[id]; dup {
			idx.Duplicates++
			logger.Debug("duplicate event key", "stream", s.Name(), "key", key, "position", pos, "previous", prev)
		}
		idx.Positions[id] = pos
		count++
		if maxEvents > 0 && count >= maxEvents {
			return event.ErrStop
		}
		return nil
	})
	if err != nil {
		return Index{}, errors.Wrapf(err, "index %s", s.Name())
	}
	return idx, nil
}

func (idx Index) Len() int { return len(idx.Positions) }

// PositionPair addresses the same event in two streams.
type PositionPair struct {
	A, B int64
}

// Align intersects two indices. Pairs are sorted by (A, B) so that both
// streams are visited mostly in file order.
func Align(a, b Index) []PositionPair {
	var pairs []PositionPair
	for id, pa := range a.Positions {
		if pb, ok := b.Positions[id]; ok {
			pairs = append(pairs, PositionPair{A: pa, B: pb})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs
}
