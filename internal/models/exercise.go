package models

// Unit is the measurement unit of an exercise target
type Unit string

const (
	UnitReps Unit = "reps"
	UnitSec  Unit = "sec"
	UnitMin  Unit = "min"
	UnitRest Unit = "rest"
)

// Valid reports whether u is one of the known units
func (u Unit) Valid() bool {
	switch u {
	case UnitReps, UnitSec, UnitMin, UnitRest:
		return true
	default:
		return false
	}
}

// ExerciseTemplate is a catalog entry. Templates are never mutated.
type ExerciseTemplate struct {
	Name              string   `json:"name"`
	BaseTarget        int      `json:"base_target"`
	Unit              Unit     `json:"unit"`
	Description       string   `json:"description"`
	RequiredEquipment []string `json:"required_equipment,omitempty"`
}

// Exercise is a template instantiated inside a plan day (or a carry-over).
type Exercise struct {
	Name              string   `json:"name"`
	Target            int      `json:"target"`
	Unit              Unit     `json:"unit"`
	Description       string   `json:"description"`
	RequiredEquipment []string `json:"required_equipment,omitempty"`
	Completed         float64  `json:"completed"`
}

// Clone returns a copy of e that shares no memory with it
func (e Exercise) Clone() Exercise {
	e.RequiredEquipment = cloneStrings(e.RequiredEquipment)
	return e
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
