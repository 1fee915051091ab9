package pairsel

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/pairsel/report"
	"github.com/hupe1980/pairsel/resource"
	"github.com/hupe1980/pairsel/selection"
	"github.com/hupe1980/pairsel/veto"
)

// ConfigVersion is the only configuration version understood.
const ConfigVersion = 1

// Slot names one or both objects of a selected pair.
type Slot string

const (
	SlotFirst  Slot = "first"
	SlotSecond Slot = "second"
	SlotBoth   Slot = "both"
)

// Source addresses the candidates of one collection: the objects passing
// Mask, or every object when Mask is empty.
type Source struct {
	Collection string `yaml:"collection" json:"collection" validate:"required"`
	Mask       string `yaml:"mask,omitempty" json:"mask,omitempty"`
}

func (s Source) String() string {
	if s.Mask == "" {
		return s.Collection
	}
	return s.Collection + "[" + s.Mask + "]"
}

// KeyConfig is one comparator key.
type KeyConfig struct {
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`
	Side   string `yaml:"side" json:"side" validate:"required,oneof=first second"`
	Column string `yaml:"column" json:"column" validate:"required"`
	Order  string `yaml:"order" json:"order" validate:"required,oneof=asc desc"`
}

// PairStep selects one pair per event.
type PairStep struct {
	Name string `yaml:"name" json:"name" validate:"required"`
	// Preset fills kind, ordering and cuts of a standard channel.
	Preset string `yaml:"preset,omitempty" json:"preset,omitempty" validate:"omitempty,oneof=mt et tt bb"`
	Kind   string `yaml:"kind,omitempty" json:"kind,omitempty" validate:"omitempty,oneof=cross same anchored"`

	First  Source  `yaml:"first" json:"first"`
	Second *Source `yaml:"second,omitempty" json:"second,omitempty"`

	// Ordering selects a built-in comparator chain; Keys replaces it.
	Ordering  string      `yaml:"ordering,omitempty" json:"ordering,omitempty" validate:"omitempty,oneof=pt isolation"`
	IsoColumn string      `yaml:"iso_column,omitempty" json:"iso_column,omitempty"`
	Keys      []KeyConfig `yaml:"keys,omitempty" json:"keys,omitempty" validate:"dive"`

	Window *selection.Window `yaml:"window,omitempty" json:"window,omitempty"`

	// Anchored selection.
	Column       string   `yaml:"column,omitempty" json:"column,omitempty"`
	WorkingPoint *float64 `yaml:"working_point,omitempty" json:"working_point,omitempty"`
	MinDeltaR    *float64 `yaml:"min_delta_r,omitempty" json:"min_delta_r,omitempty" validate:"omitempty,gte=0"`
}

// PairRef addresses slots of a pair selected by an earlier step.
type PairRef struct {
	Pair string `yaml:"pair" json:"pair" validate:"required"`
	Slot Slot   `yaml:"slot,omitempty" json:"slot,omitempty" validate:"omitempty,oneof=first second both"`
}

// MatchStep associates every primary candidate with its secondary
// candidates within MaxDeltaR. Primary candidates come either from a
// source or from the slots of a selected pair.
type MatchStep struct {
	Name      string   `yaml:"name" json:"name" validate:"required"`
	Primary   *Source  `yaml:"primary,omitempty" json:"primary,omitempty" validate:"required_without=From"`
	From      *PairRef `yaml:"from,omitempty" json:"from,omitempty" validate:"required_without=Primary,excluded_with=Primary"`
	Secondary Source   `yaml:"secondary" json:"secondary"`
	MaxDeltaR float64  `yaml:"max_delta_r" json:"max_delta_r" validate:"gt=0"`
}

// OtherStep finds the first masked candidate that is not part of a pair.
type OtherStep struct {
	Name   string `yaml:"name" json:"name" validate:"required"`
	Pair   string `yaml:"pair" json:"pair" validate:"required"`
	Source Source `yaml:"source" json:"source"`
}

// BestStep picks the candidate with the highest score, either a column or
// the ratio numerator/(numerator+denominator).
type BestStep struct {
	Name        string `yaml:"name" json:"name" validate:"required"`
	Source      Source `yaml:"source" json:"source"`
	Column      string `yaml:"column,omitempty" json:"column,omitempty" validate:"required_without=Numerator,excluded_with=Numerator"`
	Numerator   string `yaml:"numerator,omitempty" json:"numerator,omitempty" validate:"required_with=Denominator"`
	Denominator string `yaml:"denominator,omitempty" json:"denominator,omitempty" validate:"required_with=Numerator"`
}

// FirstWithinStep finds the first target candidate within MaxDeltaR of one
// slot of a selected pair.
type FirstWithinStep struct {
	Name      string  `yaml:"name" json:"name" validate:"required"`
	From      PairRef `yaml:"from" json:"from"`
	Target    Source  `yaml:"target" json:"target"`
	MaxDeltaR float64 `yaml:"max_delta_r" json:"max_delta_r" validate:"gt=0"`
}

// Veto kinds.
const (
	VetoDilepton = "dilepton"
	VetoClean    = "clean"
	VetoMap      = "veto_map"
)

// VetoStep is an event-level veto or an overlap cleaning.
type VetoStep struct {
	Name         string     `yaml:"name" json:"name" validate:"required"`
	Kind         string     `yaml:"kind" json:"kind" validate:"required,oneof=dilepton clean veto_map"`
	Source       Source     `yaml:"source" json:"source"`
	Against      *Source    `yaml:"against,omitempty" json:"against,omitempty" validate:"required_unless=Kind dilepton"`
	ChargeColumn string     `yaml:"charge_column,omitempty" json:"charge_column,omitempty"`
	MinDeltaR    float64    `yaml:"min_delta_r" json:"min_delta_r" validate:"gte=0"`
	Map          *veto.Grid `yaml:"map,omitempty" json:"map,omitempty" validate:"required_if=Kind veto_map"`
}

// ReportConfig overrides the summary histogram binnings.
type ReportConfig struct {
	DeltaR *report.Binning `yaml:"delta_r,omitempty" json:"delta_r,omitempty"`
	Mass   *report.Binning `yaml:"mass,omitempty" json:"mass,omitempty"`
}

// Config describes the per-event processing.
type Config struct {
	Version int    `yaml:"version" json:"version" validate:"omitempty,eq=1"`
	Codec   string `yaml:"codec,omitempty" json:"codec,omitempty" validate:"omitempty,oneof=json go-json"`
	// Compression of result files written by Run: none, lz4 or zstd. Empty
	// infers it from the output name.
	Compression string `yaml:"compression,omitempty" json:"compression,omitempty" validate:"omitempty,oneof=none lz4 zstd"`
	// Epsilon is the comparator tie tolerance. Zero selects the default.
	Epsilon float64 `yaml:"epsilon,omitempty" json:"epsilon,omitempty" validate:"gte=0"`
	// Workers bounds batch parallelism. Zero selects GOMAXPROCS.
	Workers int `yaml:"workers,omitempty" json:"workers,omitempty" validate:"gte=0"`

	Pairs       []PairStep        `yaml:"pairs,omitempty" json:"pairs,omitempty" validate:"dive"`
	Matches     []MatchStep       `yaml:"matches,omitempty" json:"matches,omitempty" validate:"dive"`
	Others      []OtherStep       `yaml:"others,omitempty" json:"others,omitempty" validate:"dive"`
	Best        []BestStep        `yaml:"best,omitempty" json:"best,omitempty" validate:"dive"`
	FirstWithin []FirstWithinStep `yaml:"first_within,omitempty" json:"first_within,omitempty" validate:"dive"`
	Vetoes      []VetoStep        `yaml:"vetoes,omitempty" json:"vetoes,omitempty" validate:"dive"`

	Resources *resource.Config `yaml:"resources,omitempty" json:"resources,omitempty"`
	Report    *ReportConfig    `yaml:"report,omitempty" json:"report,omitempty"`
}

var configValidate = newValidator()

// newValidator reports fields by their YAML names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseConfig decodes a YAML configuration. Unknown fields are rejected.
func ParseConfig(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, &ConfigError{Field: "yaml", Reason: err.Error(), cause: err}
	}
	return &cfg, nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}

// Validate checks the configuration without building a processor.
func (c *Config) Validate() error {
	_, err := compile(c, 0)
	return err
}

// checkStruct runs the tag validation and converts the first failure.
func (c *Config) checkStruct() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		reason := "failed " + fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		return &ConfigError{Field: fieldPath(fe.Namespace()), Reason: reason, cause: err}
	}
	return configError("config", err)
}

// fieldPath drops the root type name of a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
