package types

import "fmt"

// GenerationMode selects how a route is produced.
type GenerationMode string

const (
	ModeAlgorithmic GenerationMode = "algorithmic"
	ModeLLM         GenerationMode = "llm"
	ModeHybrid      GenerationMode = "hybrid"
)

func (m GenerationMode) Valid() bool {
	switch m {
	case ModeAlgorithmic, ModeLLM, ModeHybrid:
		return true
	}
	return false
}

// TravelMode picks the average speed used for travel-time estimates.
type TravelMode string

const (
	TravelWalking TravelMode = "walking"
	TravelDriving TravelMode = "driving"
)

// Preference is the user's stated constraints for one generation request.
// MaxBudget nil means unbounded; zero means a strict zero budget.
type Preference struct {
	Categories     []string    `json:"categories,omitempty"`
	MaxBudget      *float64    `json:"max_budget,omitempty"`
	TargetDuration int         `json:"target_duration"` // minutes
	Start          *Coordinate `json:"start,omitempty"`
	TravelMode     TravelMode  `json:"travel_mode,omitempty"`
	Description    string      `json:"description,omitempty"` // free text, llm/hybrid only
}

// Validate checks the preference before any generation work starts.
func (p Preference) Validate() error {
	if p.TargetDuration <= 0 {
		return fmt.Errorf("%w: target duration must be positive, got %d", ErrValidation, p.TargetDuration)
	}
	if p.MaxBudget != nil && *p.MaxBudget < 0 {
		return fmt.Errorf("%w: max budget must not be negative, got %f", ErrValidation, *p.MaxBudget)
	}
	if p.Start != nil {
		if err := p.Start.Validate(); err != nil {
			return err
		}
	}
	switch p.TravelMode {
	case "", TravelWalking, TravelDriving:
	default:
		return fmt.Errorf("%w: unknown travel mode %q", ErrValidation, p.TravelMode)
	}
	return nil
}
