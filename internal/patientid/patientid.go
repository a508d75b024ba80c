// Package patientid resolves the textual forms a patient reference can take
// ("83921", "#83921", the record id or its display id) to one patient.
//
// Every comparison between a caller-supplied patient reference and a stored
// record goes through this package.
package patientid

import (
	"strings"

	"github.com/templui/carepledge/internal/model"
)

// Normalize strips surrounding whitespace and any leading '#'.
func Normalize(raw string) string {
	return strings.TrimLeft(strings.TrimSpace(raw), "#")
}

// Equal reports whether two references name the same id.
func Equal(a, b string) bool {
	na := Normalize(a)
	return na != "" && na == Normalize(b)
}

// Matches reports whether raw refers to p by either of its identifiers.
func Matches(raw string, p model.Patient) bool {
	return Equal(raw, p.ID) || Equal(raw, p.PatientID)
}

// Find returns the patient raw refers to. Canonical ids win over display
// ids so that a display id colliding with another record's id cannot
// shadow it.
func Find(patients []model.Patient, raw string) (model.Patient, bool) {
	for _, p := range patients {
		if Equal(raw, p.ID) {
			return p, true
		}
	}
	for _, p := range patients {
		if Equal(raw, p.PatientID) {
			return p, true
		}
	}
	return model.Patient{}, false
}

// Owns reports whether a stored patient reference (pledge, goal, alert, tip)
// belongs to p.
func Owns(stored string, p model.Patient) bool {
	return Matches(stored, p)
}
