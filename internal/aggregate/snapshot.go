// Package aggregate computes dashboard views from a point-in-time copy of
// the stores. Every function here is pure: same snapshot, same result.
package aggregate

import (
	"math"
	"time"

	"github.com/templui/carepledge/internal/model"
)

type Snapshot struct {
	Now          time.Time
	Patients     []model.Patient
	Staff        []model.Staff
	Goals        []*model.Goal
	Pledges      []*model.Pledge
	Alerts       []model.Alert
	Tips         []model.Tip
	Appointments []model.Appointment
	Ratings      []model.Rating
	Ledger       []model.LedgerEntry
}

func (s Snapshot) patientsOf(staffIDs map[string]bool) []model.Patient {
	var out []model.Patient
	for _, p := range s.Patients {
		if staffIDs[p.ProviderID] {
			out = append(out, p)
		}
	}
	return out
}

func (s Snapshot) ratingsOf(staffIDs map[string]bool) []model.Rating {
	var out []model.Rating
	for _, r := range s.Ratings {
		if staffIDs[r.StaffID] {
			out = append(out, r)
		}
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func averageScore(ratings []model.Rating) (float64, bool) {
	if len(ratings) == 0 {
		return 0, false
	}
	var sum float64
	for _, r := range ratings {
		sum += r.Score
	}
	return sum / float64(len(ratings)), true
}

func averageAdherence(patients []model.Patient) (float64, bool) {
	if len(patients) == 0 {
		return 0, false
	}
	var sum float64
	for _, p := range patients {
		sum += p.Adherence
	}
	return sum / float64(len(patients)), true
}

func percent(part, whole int) (float64, bool) {
	if whole == 0 {
		return 0, false
	}
	return float64(part) / float64(whole) * 100, true
}
