package config

import (
	"fmt"
	"io"
	"os"

	"github.com/chazu/csgpart/pkg/kernel"
	"gopkg.in/yaml.v3"
)

// PaletteEntry is one colour in a palette file.
type PaletteEntry struct {
	Code int    `yaml:"code"`
	Name string `yaml:"name,omitempty"`
	RGBA string `yaml:"rgba"` // #RRGGBB or #RRGGBBAA
}

// PaletteFile is the YAML layout of a palette file:
//
//	colours:
//	  - code: 4
//	    name: Red
//	    rgba: "#C91A09"
type PaletteFile struct {
	Colours []PaletteEntry `yaml:"colours"`
}

// ReadPalette parses a palette file and lays its entries over the default
// palette.
func ReadPalette(r io.Reader) (kernel.Palette, error) {
	var pf PaletteFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: palette: %w", err)
	}

	p := kernel.DefaultPalette()
	for _, e := range pf.Colours {
		if e.Code < 0 {
			return nil, fmt.Errorf("config: palette: negative code %d", e.Code)
		}
		c := kernel.ParseColour(e.RGBA, nil)
		if c == nil || !c.Direct() {
			return nil, fmt.Errorf("config: palette: code %d: bad rgba %q", e.Code, e.RGBA)
		}
		c.Code = e.Code
		p[e.Code] = *c
	}
	return p, nil
}

// LoadPalette reads the palette file at path. An empty path yields the
// default palette.
func LoadPalette(path string) (kernel.Palette, error) {
	if path == "" {
		return kernel.DefaultPalette(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: palette: %w", err)
	}
	defer f.Close()
	return ReadPalette(f)
}
