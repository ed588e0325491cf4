// Package config loads named scoring profiles from YAML.
//
// A profile starts from a preset and overrides individual knobs:
//
//	name: repeats
//	preset: dna
//	type: local
//	gap_open: -4
//	band:
//	  half_width: 12
//	  max_path_len_diff: 0.2
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aria-lang/bioflow-align/internal/alignment"
	"gopkg.in/yaml.v3"
)

// Profile is one scoring profile. Nil knobs keep the preset's value.
type Profile struct {
	Name   string `yaml:"name"`
	Preset string `yaml:"preset"`
	Type   string `yaml:"type"`

	Match                *int `yaml:"match"`
	Mismatch             *int `yaml:"mismatch"`
	GapOpen              *int `yaml:"gap_open"`
	GapExtn              *int `yaml:"gap_extn"`
	DelayedGapExtension  *int `yaml:"delayed_gap_extension"`
	ProgressiveThreshold *int `yaml:"progressive_threshold"`

	Band *Band `yaml:"band"`
}

// Band configures a banded local fill. Zero fields take DefaultBand values.
type Band struct {
	HalfWidth      int     `yaml:"half_width"`
	MaxPathLenDiff float64 `yaml:"max_path_len_diff"`
}

// Load reads a profile from a YAML file.
func Load(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening profile: %w", err)
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a profile, rejecting unknown keys. An empty document yields
// the default profile.
func Parse(r io.Reader) (*Profile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Profile
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	if _, err := p.AlignmentType(); err != nil {
		return nil, err
	}
	if _, err := p.ScoreConfig(); err != nil {
		return nil, err
	}
	return &p, nil
}

func preset(name string) (alignment.ScoreConfig, error) {
	switch strings.ToLower(name) {
	case "", "default":
		return alignment.DefaultScores(), nil
	case "dna":
		return alignment.DefaultDNA(), nil
	case "blast":
		return alignment.BLASTLike(), nil
	default:
		return alignment.ScoreConfig{}, fmt.Errorf("unknown preset %q", name)
	}
}

// ScoreConfig builds and validates the engine configuration.
func (p *Profile) ScoreConfig() (alignment.ScoreConfig, error) {
	sc, err := preset(p.Preset)
	if err != nil {
		return alignment.ScoreConfig{}, err
	}

	set := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	set(&sc.MatchScore, p.Match)
	set(&sc.MismatchPenalty, p.Mismatch)
	set(&sc.GapOpenPenalty, p.GapOpen)
	set(&sc.GapExtnPenalty, p.GapExtn)
	set(&sc.DelayedGapExtension, p.DelayedGapExtension)
	set(&sc.ProgressivePenaltyThreshold, p.ProgressiveThreshold)

	if p.Band != nil {
		band := *alignment.DefaultBand()
		if p.Band.HalfWidth != 0 {
			band.InitialHalfWidth = p.Band.HalfWidth
		}
		if p.Band.MaxPathLenDiff != 0 {
			band.MaxPathLenDiff = p.Band.MaxPathLenDiff
		}
		sc.Band = &band
	}

	if err := sc.Validate(); err != nil {
		return alignment.ScoreConfig{}, err
	}
	return sc, nil
}

// AlignmentType returns the profile's alignment mode, Local by default.
func (p *Profile) AlignmentType() (alignment.AlignmentType, error) {
	switch strings.ToLower(p.Type) {
	case "", "local":
		return alignment.Local, nil
	case "global":
		if p.Band != nil {
			return alignment.Global, errors.New("global profiles cannot be banded")
		}
		return alignment.Global, nil
	default:
		return alignment.Local, fmt.Errorf("unknown alignment type %q", p.Type)
	}
}
