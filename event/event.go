// Package event holds the jet/MET event record shared by the analyses and
// the streams that read it from ROOT, LCIO and proio files.
package event

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrBadFileName is returned when no file ordinal can be parsed from an
	// input file name.
	ErrBadFileName = errors.New("cannot parse file ordinal")
	// ErrNoFiles is returned when a file list selects nothing.
	ErrNoFiles = errors.New("no input files")
	// ErrStop may be returned from a Scan callback to end the scan early
	// without an error.
	ErrStop = errors.New("stop scan")
)

type Jet struct {
	Pt, Eta, Phi float64
	ID           bool
}

type MET struct {
	Pt, Phi, SumEt float64
}

// Key identifies an event across reprocessings. Event numbers alone are not
// unique between privately produced campaigns, hence the file ordinal.
type Key struct {
	Run   uint32
	Lumi  uint32
	Event uint64
	File  int
}

// ID is the part of the key used to align two streams.
func (k Key) ID() ID {
	return ID{Event: k.Event, File: k.File}
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%d:%d@%d", k.Run, k.Lumi, k.Event, k.File)
}

// ID is the (event number, file ordinal) alignment key.
type ID struct {
	Event uint64
	File  int
}

type Event struct {
	Key  Key
	Jets []Jet
	MET  MET
}

// Stream is a random access sequence of events. Positions are dense,
// starting at zero, in file order.
type Stream interface {
	Name() string
	// Scan calls fn for every event in order.
	Scan(ctx context.Context, fn func(pos int64, key Key) error) error
	// At returns the event at pos. The returned event is only valid until
	// the next call to At.
	At(pos int64) (*Event, error)
	Close() error
}

// Slice is an in-memory Stream.
type Slice struct {
	StreamName string
	Events     []Event
}

func (s *Slice) Name() string { return s.StreamName }

func (s *Slice) Scan(ctx context.Context, fn func(pos int64, key Key) error) error {
	for i := range s.Events {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(int64(i), s.Events[i].Key); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
	return nil
}

func (s *Slice) At(pos int64) (*Event, error) {
	if pos < 0 || pos >= int64(len(s.Events)) {
		return nil, errors.Errorf("%s: position %d out of range [0, %d)", s.StreamName, pos, len(s.Events))
	}
	return &s.Events[pos], nil
}

func (s *Slice) Close() error { return nil }
