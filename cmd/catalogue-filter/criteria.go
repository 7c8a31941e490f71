package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-fill-catalogue/config"
	"github.com/aluiziolira/go-fill-catalogue/filter"
)

// listFlag is a comma-separated multi-select. An unset flag is an absent
// control; "-audience=" is a control with nothing checked.
type listFlag struct {
	values []string
	set    bool
}

func (l *listFlag) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(l.values, ",")
}

func (l *listFlag) Set(value string) error {
	l.set = true
	l.values = l.values[:0]
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			l.values = append(l.values, part)
		}
	}
	return nil
}

func (l *listFlag) selection() filter.Selection {
	if !l.set {
		return filter.Any()
	}
	return filter.Of(l.values...)
}

// boundFlag is an optional non-negative word bound.
type boundFlag struct {
	value *int
}

func (b *boundFlag) String() string {
	if b == nil || b.value == nil {
		return ""
	}
	return strconv.Itoa(*b.value)
}

func (b *boundFlag) Set(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		b.value = nil
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("word bound must be a whole number: %w", err)
	}
	if n < 0 {
		return fmt.Errorf("word bound must be non-negative")
	}
	b.value = filter.Bound(n)
	return nil
}

type criteriaFlags struct {
	text         string
	minWords     boundFlag
	maxWords     boundFlag
	series       string
	audience     listFlag
	speakers     listFlag
	filledStatus listFlag
	rating       listFlag
	filledBy     string
	emptyPolicy  string
	presetFile   string
	presetName   string
}

func registerCriteriaFlags(fs *flag.FlagSet) *criteriaFlags {
	cf := &criteriaFlags{}
	fs.StringVar(&cf.text, "text", "", "Case-insensitive substring matched against title, summary and tags")
	fs.Var(&cf.minWords, "min-words", "Minimum spoken word count")
	fs.Var(&cf.maxWords, "max-words", "Maximum spoken word count")
	fs.StringVar(&cf.series, "series", "", `Series title, or "`+filter.OneShotsOnly+`"`)
	fs.Var(&cf.audience, "audience", "Comma-separated audience codes to keep (e.g. F4M,F4A)")
	fs.Var(&cf.speakers, "speakers", "Comma-separated speaker counts to keep (e.g. 1,2)")
	fs.Var(&cf.filledStatus, "status", "Comma-separated fill status to keep: filled, unfilled")
	fs.Var(&cf.rating, "rating", "Comma-separated ratings to keep: SFW, NSFW")
	fs.StringVar(&cf.filledBy, "filled-by", "", "Keep scripts filled by this voice actor")
	fs.StringVar(&cf.emptyPolicy, "empty-selection", "", "What an empty multi-select means: none (hide all) or all (ignore)")
	fs.StringVar(&cf.presetFile, "preset", "", "YAML file of named filter presets")
	fs.StringVar(&cf.presetName, "preset-name", "", "Preset to apply (optional when the file has one preset)")
	return cf
}

// build resolves the criteria: preset values first, then any flag the user
// set explicitly, then the configured empty-selection policy as a fallback.
func (cf *criteriaFlags) build(fs *flag.FlagSet, defaultPolicy string) (filter.Criteria, error) {
	c := filter.Criteria{
		Audience:     filter.Any(),
		Speakers:     filter.Any(),
		FilledStatus: filter.Any(),
		Rating:       filter.Any(),
	}

	policy := defaultPolicy
	if cf.presetFile != "" {
		preset, err := loadPreset(cf.presetFile, cf.presetName)
		if err != nil {
			return filter.Criteria{}, err
		}
		c = preset.Criteria()
		if preset.EmptySelection != "" {
			policy = preset.EmptySelection
		}
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["text"] {
		c.Text = cf.text
	}
	if set["min-words"] {
		c.MinWords = cf.minWords.value
	}
	if set["max-words"] {
		c.MaxWords = cf.maxWords.value
	}
	if set["series"] {
		c.Series = cf.series
	}
	if set["audience"] {
		c.Audience = filter.AudienceOf(cf.audience.values...)
	}
	if set["speakers"] {
		for _, v := range cf.speakers.values {
			if _, err := strconv.Atoi(v); err != nil {
				return filter.Criteria{}, fmt.Errorf("%w: %q", config.ErrInvalidSpeakers, v)
			}
		}
		c.Speakers = cf.speakers.selection()
	}
	if set["status"] {
		for _, v := range cf.filledStatus.values {
			if v != filter.StatusFilled && v != filter.StatusUnfilled {
				return filter.Criteria{}, fmt.Errorf("%w: %q", config.ErrInvalidStatus, v)
			}
		}
		c.FilledStatus = cf.filledStatus.selection()
	}
	if set["rating"] {
		values := make([]string, 0, len(cf.rating.values))
		for _, v := range cf.rating.values {
			v = strings.ToUpper(v)
			if v != filter.RatingSFW && v != filter.RatingNSFW {
				return filter.Criteria{}, fmt.Errorf("%w: %q", config.ErrInvalidRating, v)
			}
			values = append(values, v)
		}
		c.Rating = filter.Of(values...)
	}
	if set["filled-by"] {
		c.FilledBy = cf.filledBy
	}
	if set["empty-selection"] {
		policy = cf.emptyPolicy
	}

	if c.MinWords != nil && c.MaxWords != nil && *c.MinWords > *c.MaxWords {
		return filter.Criteria{}, config.ErrBoundsInverted
	}

	p, ok := filter.ParseEmptyPolicy(policy)
	if !ok {
		return filter.Criteria{}, config.ErrInvalidPolicy
	}
	c.EmptySelection = p
	return c, nil
}

func loadPreset(path, name string) (config.Preset, error) {
	pf, err := config.LoadPresets(path)
	if err != nil {
		return config.Preset{}, err
	}
	if name == "" {
		names := pf.Names()
		if len(names) != 1 {
			return config.Preset{}, fmt.Errorf("preset file defines %d presets; choose one with -preset-name (%s)", len(names), strings.Join(names, ", "))
		}
		name = names[0]
	}
	return pf.Lookup(name)
}
