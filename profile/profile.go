// Package profile reads clock tree profiles from YAML. A profile names a
// family and overrides any subset of that family's default configuration.
package profile

import (
	"bytes"
	"embed"
	"errors"
	"io"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"clocktree-go/clocks"
	"clocktree-go/errcode"
)

//go:embed builtin/*.yaml
var builtin embed.FS

var ErrUnknownProfile = errors.New("unknown profile")

// Profile is the YAML form of a clocks.Config. Nil fields keep the family
// default.
type Profile struct {
	Family    string  `yaml:"family"`
	Source    *string `yaml:"source,omitempty"`
	PLLSource *string `yaml:"pllSource,omitempty"`
	HSEHz     *uint32 `yaml:"hseHz,omitempty"`
	MSIRange  *string `yaml:"msiRange,omitempty"`

	PLL  *PLL `yaml:"pll,omitempty"`
	SAI1 *SAI `yaml:"sai1,omitempty"`
	SAI2 *SAI `yaml:"sai2,omitempty"`

	AHBDiv  *uint16 `yaml:"ahbDiv,omitempty"`
	APB1Div *uint8  `yaml:"apb1Div,omitempty"`
	APB2Div *uint8  `yaml:"apb2Div,omitempty"`

	Clk48     *string `yaml:"clk48,omitempty"`
	HSEBypass *bool   `yaml:"hseBypass,omitempty"`
	CSS       *bool   `yaml:"css,omitempty"`
	HSI48     *bool   `yaml:"hsi48,omitempty"`
	StopWake  *string `yaml:"stopWake,omitempty"`
}

type PLL struct {
	M *uint8 `yaml:"m,omitempty"`
	N *uint8 `yaml:"n,omitempty"`
	R *uint8 `yaml:"r,omitempty"`
	Q *uint8 `yaml:"q,omitempty"`
}

type SAI struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	N       *uint8 `yaml:"n,omitempty"`
	Q       *uint8 `yaml:"q,omitempty"`
}

// Load decodes one profile from r. fam is used when the profile does not
// name a family; it may be nil if it does.
func Load(r io.Reader, fam *clocks.Family) (clocks.Config, error) {
	var p Profile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return clocks.Config{}, &errcode.E{C: errcode.InvalidParams, Op: "profile.load", Msg: "yaml", Err: err}
	}
	return p.Config(fam)
}

// Builtin loads an embedded profile by name, e.g. "l4-hsi-80m".
func Builtin(name string) (clocks.Config, error) {
	b, err := builtin.ReadFile(path.Join("builtin", name+".yaml"))
	if err != nil {
		return clocks.Config{}, &errcode.E{C: errcode.InvalidParams, Op: "profile.builtin", Msg: name, Err: ErrUnknownProfile}
	}
	return Load(bytes.NewReader(b), nil)
}

// Names lists the embedded profiles.
func Names() []string {
	entries, _ := builtin.ReadDir("builtin")
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(out)
	return out
}

// Config overlays p onto the default configuration of its family.
func (p *Profile) Config(fam *clocks.Family) (clocks.Config, error) {
	bad := func(field string) (clocks.Config, error) {
		return clocks.Config{}, &errcode.E{C: errcode.InvalidParams, Op: "profile.config", Msg: field}
	}

	if p.Family != "" {
		f, ok := clocks.FamilyByName(strings.ToLower(p.Family))
		if !ok {
			return bad("family")
		}
		fam = f
	}
	if fam == nil {
		return bad("family")
	}
	c := clocks.Default(fam)

	if p.Source != nil || p.PLLSource != nil || p.HSEHz != nil || p.MSIRange != nil {
		src, err := p.source(c.Source)
		if err != nil {
			return bad(err.Error())
		}
		c.Source = src
	}

	if p.PLL != nil {
		set(&c.PLLM, p.PLL.M)
		set(&c.PLLN, p.PLL.N)
		set(&c.PLLR, p.PLL.R)
		set(&c.PLLQ, p.PLL.Q)
	}
	if p.SAI1 != nil {
		set(&c.SAI1Enabled, p.SAI1.Enabled)
		set(&c.SAI1N, p.SAI1.N)
		set(&c.SAI1Q, p.SAI1.Q)
	}
	if p.SAI2 != nil {
		if p.SAI2.Q != nil {
			return bad("sai2.q")
		}
		set(&c.SAI2Enabled, p.SAI2.Enabled)
		set(&c.SAI2N, p.SAI2.N)
	}
	set(&c.AHBDiv, p.AHBDiv)
	set(&c.APB1Div, p.APB1Div)
	set(&c.APB2Div, p.APB2Div)
	set(&c.HSEBypass, p.HSEBypass)
	set(&c.SecuritySystem, p.CSS)
	set(&c.HSI48On, p.HSI48)

	if p.Clk48 != nil {
		k, ok := clocks.ParseClk48Src(*p.Clk48)
		if !ok {
			return bad("clk48")
		}
		c.Clk48 = k
	}
	if p.StopWake != nil {
		switch *p.StopWake {
		case clocks.StopWakeMSI.String():
			c.StopWake = clocks.StopWakeMSI
		case clocks.StopWakeHSI.String():
			c.StopWake = clocks.StopWakeHSI
		default:
			return bad("stopWake")
		}
	}
	return c, nil
}

// source resolves the source fields against the default source def.
func (p *Profile) source(def clocks.Source) (clocks.Source, error) {
	kind := def.Kind()
	if p.Source != nil {
		k, ok := clocks.ParseKind(*p.Source)
		if !ok || k == clocks.KindNone {
			return nil, errors.New("source")
		}
		kind = k
	}

	osc := func(k clocks.Kind) (clocks.Source, error) {
		switch k {
		case clocks.KindHSI:
			return clocks.HSI{}, nil
		case clocks.KindHSE:
			if p.HSEHz == nil {
				return nil, errors.New("hseHz")
			}
			return clocks.HSE{Hz: *p.HSEHz}, nil
		case clocks.KindMSI:
			r := clocks.MSI4M
			if p.MSIRange != nil {
				var ok bool
				if r, ok = clocks.ParseMSIRange(*p.MSIRange); !ok {
					return nil, errors.New("msiRange")
				}
			}
			return clocks.MSI{Range: r}, nil
		case clocks.KindLSI:
			return clocks.LSI{}, nil
		case clocks.KindLSE:
			return clocks.LSE{}, nil
		}
		return nil, errors.New("source")
	}

	if kind != clocks.KindPLL {
		if p.PLLSource != nil {
			return nil, errors.New("pllSource")
		}
		return osc(kind)
	}

	in := clocks.KindHSI
	if d, ok := def.(clocks.PLL); ok && d.Src != nil {
		in = d.Src.Kind()
	}
	if p.PLLSource != nil {
		k, ok := clocks.ParseKind(*p.PLLSource)
		if !ok {
			return nil, errors.New("pllSource")
		}
		in = k
	}
	s, err := osc(in)
	if err != nil {
		return nil, err
	}
	ps, ok := s.(clocks.PLLSource)
	if !ok {
		return nil, errors.New("pllSource")
	}
	return clocks.PLL{Src: ps}, nil
}

// FromConfig renders c as a complete profile.
func FromConfig(c clocks.Config) Profile {
	p := Profile{Family: c.Family.Name}
	src := c.Source
	if pll, ok := src.(clocks.PLL); ok {
		p.Source = ptr(clocks.KindPLL.String())
		if pll.Src != nil {
			p.PLLSource = ptr(pll.Src.Kind().String())
			src = pll.Src
		}
	} else if src != nil {
		p.Source = ptr(src.Kind().String())
	}
	switch s := src.(type) {
	case clocks.HSE:
		p.HSEHz = ptr(s.Hz)
	case clocks.MSI:
		p.MSIRange = ptr(s.Range.String())
	}

	p.PLL = &PLL{M: ptr(c.PLLM), N: ptr(c.PLLN), R: ptr(c.PLLR), Q: ptr(c.PLLQ)}
	if c.Family.SAIPLLs > 0 {
		p.SAI1 = &SAI{Enabled: ptr(c.SAI1Enabled), N: ptr(c.SAI1N), Q: ptr(c.SAI1Q)}
	}
	if c.Family.SAIPLLs > 1 {
		p.SAI2 = &SAI{Enabled: ptr(c.SAI2Enabled), N: ptr(c.SAI2N)}
	}
	p.AHBDiv = ptr(c.AHBDiv)
	p.APB1Div = ptr(c.APB1Div)
	if c.Family.APBBuses > 1 {
		p.APB2Div = ptr(c.APB2Div)
	}
	if c.Clk48 != clocks.Clk48None {
		p.Clk48 = ptr(c.Clk48.String())
	}
	p.HSEBypass = ptr(c.HSEBypass)
	p.CSS = ptr(c.SecuritySystem)
	p.HSI48 = ptr(c.HSI48On)
	p.StopWake = ptr(c.StopWake.String())
	return p
}

// Write encodes c as a YAML profile.
func Write(w io.Writer, c clocks.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromConfig(c)); err != nil {
		return err
	}
	return enc.Close()
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func ptr[T any](v T) *T { return &v }
