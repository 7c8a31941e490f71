package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/aluiziolira/go-fill-catalogue/filter"
)

// Preset validation errors.
var (
	ErrNoPresets       = errors.New("preset file defines no presets")
	ErrUnknownPreset   = errors.New("unknown preset")
	ErrBoundsInverted  = errors.New("min_words cannot exceed max_words")
	ErrNegativeBound   = errors.New("word bounds must be non-negative")
	ErrInvalidStatus   = errors.New("filled_status values must be filled or unfilled")
	ErrInvalidRating   = errors.New("rating values must be SFW or NSFW")
	ErrInvalidSpeakers = errors.New("speakers values must be whole numbers")
	ErrInvalidPolicy   = errors.New("empty_selection must be none or all")
)

// PresetFile is a YAML document of named filter presets.
type PresetFile struct {
	Presets map[string]Preset `yaml:"presets"`
}

// Preset is a saved set of filter control values. A list that is left out
// is an absent control; an explicit empty list is a control with nothing
// checked.
type Preset struct {
	Text           string    `yaml:"text"`
	MinWords       *int      `yaml:"min_words"`
	MaxWords       *int      `yaml:"max_words"`
	Series         string    `yaml:"series"`
	Audience       *[]string `yaml:"audience"`
	Speakers       *[]string `yaml:"speakers"`
	FilledStatus   *[]string `yaml:"filled_status"`
	Rating         *[]string `yaml:"rating"`
	FilledBy       string    `yaml:"filled_by"`
	EmptySelection string    `yaml:"empty_selection"`
}

// LoadPresets reads and validates a preset file.
func LoadPresets(path string) (*PresetFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}

	var pf PresetFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(pf.Presets) == 0 {
		return nil, ErrNoPresets
	}

	for _, name := range pf.Names() {
		p := pf.Presets[name]
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return &pf, nil
}

// Names returns the preset names sorted.
func (pf *PresetFile) Names() []string {
	names := make([]string, 0, len(pf.Presets))
	for name := range pf.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a preset by name.
func (pf *PresetFile) Lookup(name string) (Preset, error) {
	p, ok := pf.Presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p, nil
}

// Validate checks the preset values.
func (p Preset) Validate() error {
	if (p.MinWords != nil && *p.MinWords < 0) || (p.MaxWords != nil && *p.MaxWords < 0) {
		return ErrNegativeBound
	}
	if p.MinWords != nil && p.MaxWords != nil && *p.MinWords > *p.MaxWords {
		return ErrBoundsInverted
	}
	if p.FilledStatus != nil {
		for _, v := range *p.FilledStatus {
			if v != filter.StatusFilled && v != filter.StatusUnfilled {
				return fmt.Errorf("%w: %q", ErrInvalidStatus, v)
			}
		}
	}
	if p.Rating != nil {
		for _, v := range *p.Rating {
			if v != filter.RatingSFW && v != filter.RatingNSFW {
				return fmt.Errorf("%w: %q", ErrInvalidRating, v)
			}
		}
	}
	if p.Speakers != nil {
		for _, v := range *p.Speakers {
			if _, err := strconv.Atoi(v); err != nil {
				return fmt.Errorf("%w: %q", ErrInvalidSpeakers, v)
			}
		}
	}
	if _, ok := filter.ParseEmptyPolicy(p.EmptySelection); !ok {
		return ErrInvalidPolicy
	}
	return nil
}

// Criteria converts the preset into filter criteria.
func (p Preset) Criteria() filter.Criteria {
	policy, _ := filter.ParseEmptyPolicy(p.EmptySelection)
	c := filter.Criteria{
		Text:           p.Text,
		MinWords:       p.MinWords,
		MaxWords:       p.MaxWords,
		Series:         p.Series,
		Audience:       filter.Any(),
		Speakers:       selection(p.Speakers),
		FilledStatus:   selection(p.FilledStatus),
		Rating:         selection(p.Rating),
		FilledBy:       p.FilledBy,
		EmptySelection: policy,
	}
	if p.Audience != nil {
		c.Audience = filter.AudienceOf(*p.Audience...)
	}
	return c
}

func selection(values *[]string) filter.Selection {
	if values == nil {
		return filter.Any()
	}
	return filter.Of(*values...)
}
