package domain

import "github.com/google/uuid"

// WorkCenter is a resource pool (machine, station or cell) at one
// location, capable of a set of processes.
type WorkCenter struct {
	ID         uuid.UUID
	Name       string
	LocationID uuid.UUID
	Processes  []string
}

// Supports reports whether the work center can perform process.
func (w *WorkCenter) Supports(process string) bool {
	for _, p := range w.Processes {
		if p == process {
			return true
		}
	}
	return false
}
