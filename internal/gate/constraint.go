package gate

// Constraint vetoes up-adaptations the adaptation engine proposes.
type Constraint interface {
	Name() string
	IsAdaptationUpAllowed(input InputState, before, after Restrictions) bool
}

// Constraints is an ordered set of constraints that must all agree.
type Constraints []Constraint

// AllowUp returns true when every constraint allows the change. blocking is
// the name of the first constraint that refused it.
func (cs Constraints) AllowUp(input InputState, before, after Restrictions) (allowed bool, blocking string) {
	for _, c := range cs {
		if !c.IsAdaptationUpAllowed(input, before, after) {
			return false, c.Name()
		}
	}
	return true, ""
}
