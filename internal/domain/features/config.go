package features

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// H2HMode selects how the head-to-head value is computed.
type H2HMode string

const (
	// H2HModeFull is the mean points earned by the home side across meetings
	// in either orientation.
	H2HModeFull H2HMode = "full"
	// H2HModeFast counts exact-orientation home wins only.
	H2HModeFast H2HMode = "fast"
)

func ParseH2HMode(v string) (H2HMode, error) {
	switch H2HMode(v) {
	case H2HModeFull, H2HModeFast:
		return H2HMode(v), nil
	case "":
		return H2HModeFull, nil
	default:
		return "", fmt.Errorf("invalid h2h mode %q: valid values are %s, %s", v, H2HModeFull, H2HModeFast)
	}
}

// Config gathers every tunable the feature pipeline uses.
type Config struct {
	EMASpan          int     `validate:"gte=1"`
	FormWindow       int     `validate:"gte=1"`
	RestDefaultDays  int     `validate:"gte=0"`
	RestMinDays      int     `validate:"gte=0"`
	RestMaxDays      int     `validate:"gtefield=RestMinDays"`
	H2HNeutral       float64 `validate:"gte=0,lte=3"`
	H2HLookbackYears int     `validate:"gte=0"`
	// InferenceRestDays replaces rest days for fixtures, whose kickoff may
	// be far from the last known match.
	InferenceRestDays int     `validate:"gte=0"`
	InferenceH2HMode  H2HMode `validate:"oneof=full fast"`
	Workers           int     `validate:"gte=1"`
}

func DefaultConfig() Config {
	return Config{
		EMASpan:           5,
		FormWindow:        3,
		RestDefaultDays:   7,
		RestMinDays:       2,
		RestMaxDays:       14,
		H2HNeutral:        1.5,
		H2HLookbackYears:  3,
		InferenceRestDays: 7,
		InferenceH2HMode:  H2HModeFull,
		Workers:           4,
	}
}

var configValidator = validator.New()

func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid feature config: %w", err)
	}
	if c.RestDefaultDays < c.RestMinDays || c.RestDefaultDays > c.RestMaxDays {
		return fmt.Errorf("invalid feature config: rest default %d outside [%d, %d]", c.RestDefaultDays, c.RestMinDays, c.RestMaxDays)
	}
	return nil
}

// emaDecay is 1 - alpha for a span-s exponential moving average.
func (c Config) emaDecay() float64 {
	alpha := 2.0 / (float64(c.EMASpan) + 1.0)
	return 1.0 - alpha
}

func (c Config) clampRest(days int) int {
	if days < c.RestMinDays {
		return c.RestMinDays
	}
	if days > c.RestMaxDays {
		return c.RestMaxDays
	}
	return days
}
