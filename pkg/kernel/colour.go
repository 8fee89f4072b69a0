package kernel

import (
	"fmt"
	"strconv"
	"strings"
)

// Colour codes with special meaning in part documents.
const (
	// ColourInherit is the "use the parent's colour" placeholder.
	ColourInherit = 16
	// ColourEdge is the conventional colour of edge lines.
	ColourEdge = 24
)

// Colour is a face colour. A palette colour keeps its code so it can be
// written back as a code; a direct colour has Code < 0.
type Colour struct {
	Code       int     `json:"code" yaml:"code"`
	R, G, B, A float32 `json:"-" yaml:"-"`
}

// Direct reports whether the colour is an explicit RGBA value rather than a
// palette entry.
func (c Colour) Direct() bool {
	return c.Code < 0
}

// String returns the document token for the colour: the palette code, an
// LDraw direct colour (0x2RRGGBB) when opaque, or #RRGGBBAA.
func (c Colour) String() string {
	if !c.Direct() {
		return strconv.Itoa(c.Code)
	}
	r, g, b, a := to8(c.R), to8(c.G), to8(c.B), to8(c.A)
	if a == 255 {
		return fmt.Sprintf("0x2%02X%02X%02X", r, g, b)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", r, g, b, a)
}

// Equal reports whether two colours encode the same token.
func (c Colour) Equal(o Colour) bool {
	return c.String() == o.String()
}

// RGBA returns the colour as four 0..1 floats.
func (c Colour) RGBA() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

func to8(f float32) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	}
	return uint8(f*255 + 0.5)
}

// Palette maps colour codes to RGBA values.
type Palette map[int]Colour

// DefaultPalette returns the built-in subset of the standard part palette.
func DefaultPalette() Palette {
	p := Palette{}
	for _, e := range []struct {
		code    int
		r, g, b uint8
		a       uint8
	}{
		{0, 0x1B, 0x2A, 0x34, 255},
		{1, 0x1E, 0x5A, 0xA8, 255},
		{2, 0x00, 0x85, 0x2B, 255},
		{4, 0xB4, 0x00, 0x00, 255},
		{7, 0x8A, 0x92, 0x8D, 255},
		{14, 0xFA, 0xC8, 0x0A, 255},
		{15, 0xF4, 0xF4, 0xF4, 255},
		{16, 0x7F, 0x7F, 0x7F, 255},
		{24, 0x33, 0x33, 0x33, 255},
		{36, 0xC9, 0x1A, 0x09, 128},
		{47, 0xFC, 0xFC, 0xFC, 128},
		{71, 0x96, 0x96, 0x96, 255},
		{72, 0x64, 0x64, 0x64, 255},
	} {
		p[e.code] = Colour{
			Code: e.code,
			R:    float32(e.r) / 255, G: float32(e.g) / 255, B: float32(e.b) / 255,
			A: float32(e.a) / 255,
		}
	}
	return p
}

// Lookup returns the palette entry for code. Unknown codes are kept as
// palette colours with the inherit grey so the code survives a round trip.
func (p Palette) Lookup(code int) Colour {
	if c, ok := p[code]; ok {
		return c
	}
	return Colour{Code: code, R: 0.5, G: 0.5, B: 0.5, A: 1}
}

// ParseColour parses a colour token: a non-negative palette code, an LDraw
// direct colour 0x2RRGGBB, or #RRGGBB / #RRGGBBAA. It returns nil for
// anything else, meaning "no override".
func ParseColour(tok string, p Palette) *Colour {
	switch {
	case strings.HasPrefix(tok, "0x2") || strings.HasPrefix(tok, "0X2"):
		hex := tok[3:]
		if len(hex) != 6 {
			return nil
		}
		return parseHex(hex + "FF")
	case strings.HasPrefix(tok, "#"):
		hex := tok[1:]
		switch len(hex) {
		case 6:
			return parseHex(hex + "FF")
		case 8:
			return parseHex(hex)
		}
		return nil
	}
	code, err := strconv.Atoi(tok)
	if err != nil || code < 0 {
		return nil
	}
	c := p.Lookup(code)
	return &c
}

func parseHex(hex string) *Colour {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil
	}
	return &Colour{
		Code: -1,
		R:    float32((v>>24)&0xFF) / 255,
		G:    float32((v>>16)&0xFF) / 255,
		B:    float32((v>>8)&0xFF) / 255,
		A:    float32(v&0xFF) / 255,
	}
}
