package board

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed presets/*.toml
var presetFS embed.FS

// layoutFile is the TOML shape of a board description
type layoutFile struct {
	Name         string          `toml:"name"`
	Layout       string          `toml:"layout"`
	Width        float64         `toml:"width"`
	Height       float64         `toml:"height"`
	Slots        int             `toml:"slots"`
	SlotLabels   []string        `toml:"slot_labels"`
	SlotBand     float64         `toml:"slot_band"`
	PegRows      int             `toml:"peg_rows"`
	PegCols      int             `toml:"peg_cols"`
	PegRadius    float64         `toml:"peg_radius"`
	MarbleRadius float64         `toml:"marble_radius"`
	NoPegs       bool            `toml:"no_pegs"`
	BucketHeight float64         `toml:"bucket_height"`
	Corridor     CorridorOptions `toml:"corridor"`
	ZigZag       ZigZagOptions   `toml:"zigzag"`
	Fixed        *FixedLayout    `toml:"fixed"`
	Rotors       []RotorSpec     `toml:"rotor"`
}

// DecodeLayout reads a TOML board description into Options
// Unknown keys are rejected so typos do not silently fall back to defaults
func DecodeLayout(r io.Reader) (Options, error) {
	var lf layoutFile
	md, err := toml.NewDecoder(r).Decode(&lf)
	if err != nil {
		return Options{}, fmt.Errorf("decode layout: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, fmt.Errorf("%w: unknown layout keys %s", ErrInvalidOptions, strings.Join(keys, ", "))
	}

	kind, err := ParseLayoutKind(lf.Layout)
	if err != nil {
		return Options{}, err
	}
	if lf.Fixed != nil && kind != LayoutFixed {
		return Options{}, fmt.Errorf("%w: [fixed] geometry on %s layout", ErrInvalidOptions, kind)
	}

	return Options{
		Name:         lf.Name,
		Width:        lf.Width,
		Height:       lf.Height,
		Layout:       kind,
		SlotCount:    lf.Slots,
		SlotLabels:   lf.SlotLabels,
		SlotBand:     lf.SlotBand,
		PegRows:      lf.PegRows,
		PegCols:      lf.PegCols,
		PegRadius:    lf.PegRadius,
		MarbleRadius: lf.MarbleRadius,
		NoPegs:       lf.NoPegs,
		BucketHeight: lf.BucketHeight,
		Corridor:     lf.Corridor,
		ZigZag:       lf.ZigZag,
		Fixed:        lf.Fixed,
		Rotors:       lf.Rotors,
	}, nil
}

// LoadLayoutFile decodes a layout file from disk, the file name is the default board name
func LoadLayoutFile(p string) (Options, error) {
	f, err := os.Open(p)
	if err != nil {
		return Options{}, fmt.Errorf("open layout: %w", err)
	}
	defer f.Close()

	opts, err := DecodeLayout(f)
	if err != nil {
		return Options{}, fmt.Errorf("%s: %w", p, err)
	}
	if opts.Name == "" {
		opts.Name = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	}
	return opts, nil
}

// Preset returns the options of an embedded layout
func Preset(name string) (Options, error) {
	f, err := presetFS.Open("presets/" + name + ".toml")
	if err != nil {
		return Options{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidOptions, name)
	}
	defer f.Close()

	opts, err := DecodeLayout(f)
	if err != nil {
		return Options{}, fmt.Errorf("preset %s: %w", name, err)
	}
	if opts.Name == "" {
		opts.Name = name
	}
	return opts, nil
}

// PresetNames lists embedded layouts in name order
func PresetNames() []string {
	entries, err := fs.ReadDir(presetFS, "presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if n, ok := strings.CutSuffix(e.Name(), ".toml"); ok {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// ResolveLayout accepts a preset name, a layout file path or a layout kind name
func ResolveLayout(ref string) (Options, error) {
	for _, n := range PresetNames() {
		if n == ref {
			return Preset(ref)
		}
	}
	if strings.HasSuffix(ref, ".toml") {
		return LoadLayoutFile(ref)
	}
	kind, err := ParseLayoutKind(ref)
	if err != nil {
		return Options{}, err
	}
	return Options{Name: kind.String(), Layout: kind}, nil
}
