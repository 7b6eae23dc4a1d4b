package event

import (
	"context"
	"sort"

	"github.com/pkg/errors"
)

// FileReader decodes one input file. Key.File is filled in by the stream.
type FileReader interface {
	ReadKeys(filename string) ([]Key, error)
	ReadEvents(filename string) ([]Event, error)
}

// FileStream chains the events of a list of files. Scan must run once before
// At; At keeps the events of a single file in memory, so callers should
// visit positions in increasing order.
type FileStream struct {
	name     string
	files    []string
	ordinals []int
	reader   FileReader

	offsets []int64 // offsets[i] is the position of the first event of files[i]

	cur   int
	cache []Event
}

// NewFileStream parses the file ordinals up front so that a bad file list
// fails before any event is read.
func NewFileStream(name string, files []string, reader FileReader) (*FileStream, error) {
	if len(files) == 0 {
		return nil, errors.Wrapf(ErrNoFiles, "stream %s", name)
	}
	ordinals := make([]int, len(files))
	for i, f := range files {
		n, err := FileOrdinal(f)
		if err != nil {
			return nil, err
		}
		ordinals[i] = n
	}
	return &FileStream{
		name:     name,
		files:    files,
		ordinals: ordinals,
		reader:   reader,
		cur:      -1,
	}, nil
}

func (s *FileStream) Name() string { return s.name }

func (s *FileStream) Files() []string { return s.files }

func (s *FileStream) Scan(ctx context.Context, fn func(pos int64, key Key) error) error {
	s.offsets = s.offsets[:0]
	pos := int64(0)
	for i, f := range s.files {
		if err := ctx.Err(); err != nil {
			return err
		}
		keys, err := s.reader.ReadKeys(f)
		if err != nil {
			return errors.Wrapf(err, "%s: scan %s", s.name, f)
		}
		s.offsets = append(s.offsets, pos)
		for _, key := range keys {
			key.File = s.ordinals[i]
			if err := fn(pos, key); err != nil {
				if errors.Is(err, ErrStop) {
					return nil
				}
				return err
			}
			pos++
		}
	}
	return nil
}

func (s *FileStream) At(pos int64) (*Event, error) {
	if len(s.offsets) == 0 {
		return nil, errors.Errorf("%s: At called before Scan", s.name)
	}
	i := sort.Search(len(s.offsets), func(i int) bool { return s.offsets[i] > pos }) - 1
	if i < 0 || pos < 0 {
		return nil, errors.Errorf("%s: position %d out of range", s.name, pos)
	}

	if i != s.cur {
		events, err := s.reader.ReadEvents(s.files[i])
		if err != nil {
			return nil, errors.Wrapf(err, "%s: read %s", s.name, s.files[i])
		}
		for j := range events {
			events[j].Key.File = s.ordinals[i]
		}
		s.cur = i
		s.cache = events
	}

	j := pos - s.offsets[i]
	if j >= int64(len(s.cache)) {
		return nil, errors.Errorf("%s: position %d out of range", s.name, pos)
	}
	return &s.cache[j], nil
}

func (s *FileStream) Close() error {
	s.cache = nil
	s.cur = -1
	return nil
}
