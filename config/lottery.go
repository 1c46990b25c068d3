package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/marble-lottery/board"
	"github.com/lixenwraith/marble-lottery/engine"
	"github.com/lixenwraith/marble-lottery/parameter"
)

// Entry is one participant with its marble count
type Entry struct {
	ID    string `toml:"id"`
	Name  string `toml:"name"`
	Count int    `toml:"count"`
}

// Lottery is a lottery description file:
//
//	seed = 42
//	layout = "funnel"
//	slots = 6
//
//	[[entity]]
//	id = "red"
//	name = "Team Red"
//	count = 3
type Lottery struct {
	Seed    *uint32 `toml:"seed"`
	Layout  string  `toml:"layout"`
	Slots   int     `toml:"slots"`
	Entries []Entry `toml:"entity"`
}

// ParseLottery decodes and validates a lottery file
func ParseLottery(r io.Reader) (*Lottery, error) {
	var l Lottery
	md, err := toml.NewDecoder(r).Decode(&l)
	if err != nil {
		return nil, fmt.Errorf("decode lottery: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown lottery keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// LoadLottery reads a lottery file from disk
func LoadLottery(path string) (*Lottery, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lottery: %w", err)
	}
	defer f.Close()
	return ParseLottery(f)
}

func (l *Lottery) validate() error {
	if l.Slots < 0 {
		return fmt.Errorf("%w: slot count %d", ErrInvalidConfig, l.Slots)
	}
	seen := make(map[string]bool, len(l.Entries))
	for i := range l.Entries {
		e := &l.Entries[i]
		e.ID = strings.TrimSpace(e.ID)
		if e.ID == "" {
			return fmt.Errorf("%w: entity %d has no id", ErrInvalidConfig, i+1)
		}
		if seen[e.ID] {
			return fmt.Errorf("%w: duplicate entity %q", ErrInvalidConfig, e.ID)
		}
		seen[e.ID] = true
		if e.Name == "" {
			e.Name = e.ID
		}
		if e.Count < 0 || e.Count > parameter.MaxEntityCount {
			return fmt.Errorf("%w: entity %q count %d outside [0, %d]", ErrInvalidConfig, e.ID, e.Count, parameter.MaxEntityCount)
		}
	}
	return nil
}

// Catalog returns the entity catalog in file order
func (l *Lottery) Catalog() []engine.EntityType {
	out := make([]engine.EntityType, len(l.Entries))
	for i, e := range l.Entries {
		out[i] = engine.EntityType{ID: e.ID, Name: e.Name}
	}
	return out
}

// Apply sets the selected counts of every entry on s
func (l *Lottery) Apply(s *engine.GameState) {
	for _, e := range l.Entries {
		s.SetEntityCount(e.ID, e.Count)
	}
}

// BoardOptions resolves the layout reference, fallback when the file names none
// A non-zero slot count overrides the layout's
func (l *Lottery) BoardOptions(fallback string) (board.Options, error) {
	ref := l.Layout
	if ref == "" {
		ref = fallback
	}
	opts, err := board.ResolveLayout(ref)
	if err != nil {
		return board.Options{}, err
	}
	if l.Slots > 0 {
		opts.SlotCount = l.Slots
		opts.SlotLabels = nil
	}
	return opts, nil
}

// ParseEntityList parses "id[:count],..." as used on command lines
// A missing count means one marble; names default to ids
func ParseEntityList(s string) (*Lottery, error) {
	l := &Lottery{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, count, hasCount := strings.Cut(part, ":")
		n := 1
		if hasCount {
			v, err := strconv.Atoi(strings.TrimSpace(count))
			if err != nil {
				return nil, fmt.Errorf("%w: entity %q count %q", ErrInvalidConfig, id, count)
			}
			n = v
		}
		l.Entries = append(l.Entries, Entry{ID: strings.TrimSpace(id), Count: n})
	}
	if len(l.Entries) == 0 {
		return nil, fmt.Errorf("%w: empty entity list", ErrInvalidConfig)
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return l, nil
}
