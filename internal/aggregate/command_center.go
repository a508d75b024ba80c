package aggregate

import (
	"github.com/templui/carepledge/internal/model"
	"github.com/templui/carepledge/internal/patientid"
)

// Demo defaults used for a sub-score with no underlying data when the
// fallback is enabled.
const (
	FallbackAccuracy   = 94
	FallbackRating     = 4.8
	FallbackTimeliness = 92
	FallbackHygiene    = 90
	FallbackAdherence  = 96
)

const (
	weightAccuracy   = 0.25
	weightEmpathy    = 0.20
	weightTimeliness = 0.20
	weightHygiene    = 0.15
	weightCompliance = 0.20
)

type SubScores struct {
	Accuracy   float64 `json:"accuracy"`
	Empathy    float64 `json:"empathy"`
	Timeliness float64 `json:"timeliness"`
	Hygiene    float64 `json:"hygiene"`
	Compliance float64 `json:"compliance"`
}

type CommandCenter struct {
	AdminID          string    `json:"adminId"`
	Overall          float64   `json:"overall"`
	SubScores        SubScores `json:"subScores"`
	AverageRating    float64   `json:"averageRating"`
	AverageAdherence float64   `json:"averageAdherence"`
	StaffCount       int       `json:"staffCount"`
	PatientCount     int       `json:"patientCount"`
	// Fallbacks names the sub-scores that used demo defaults.
	Fallbacks []string `json:"fallbacks"`
}

// CommandCenterFor scores the staff reporting to adminID and their
// patients. With fallback off, a sub-score without data is 0.
func CommandCenterFor(s Snapshot, adminID string, fallback bool) CommandCenter {
	cc := CommandCenter{AdminID: adminID, Fallbacks: []string{}}

	scope := make(map[string]bool)
	for i := range s.Staff {
		if s.Staff[i].AdminID == adminID && !s.Staff[i].IsAdmin() {
			scope[s.Staff[i].ID] = true
		}
	}
	cc.StaffCount = len(scope)

	patients := s.patientsOf(scope)
	cc.PatientCount = len(patients)

	use := func(name string, v float64, ok bool, def float64) float64 {
		if ok {
			return v
		}
		if !fallback {
			return 0
		}
		cc.Fallbacks = append(cc.Fallbacks, name)
		return def
	}

	completed, finished := 0, 0
	for _, g := range s.Goals {
		if !ownedByAny(g.PatientID, patients) {
			continue
		}
		switch g.Status {
		case model.GoalStatusCompleted:
			completed++
			finished++
		case model.GoalStatusExpired:
			finished++
		}
	}
	accuracy, ok := percent(completed, finished)
	cc.SubScores.Accuracy = round1(use("accuracy", accuracy, ok, FallbackAccuracy))

	rating, ok := averageScore(s.ratingsOf(scope))
	rating = use("empathy", rating, ok, FallbackRating)
	cc.AverageRating = round1(rating)
	cc.SubScores.Empathy = round1(rating * 20)

	onTime, attended := 0, 0
	for _, a := range s.Appointments {
		if !scope[a.ProviderID] {
			continue
		}
		switch a.Status {
		case model.AppointmentCompleted:
			onTime++
			attended++
		case model.AppointmentLate, model.AppointmentMissed:
			attended++
		}
	}
	timeliness, ok := percent(onTime, attended)
	cc.SubScores.Timeliness = round1(use("timeliness", timeliness, ok, FallbackTimeliness))

	resolved, alerts := 0, 0
	for _, a := range s.Alerts {
		if !scope[a.ProviderID] {
			continue
		}
		alerts++
		if a.Resolved {
			resolved++
		}
	}
	hygiene, ok := percent(resolved, alerts)
	cc.SubScores.Hygiene = round1(use("hygiene", hygiene, ok, FallbackHygiene))

	adherence, ok := averageAdherence(patients)
	cc.AverageAdherence = round1(use("compliance", adherence, ok, FallbackAdherence))
	cc.SubScores.Compliance = cc.AverageAdherence

	cc.Overall = round1(weightAccuracy*cc.SubScores.Accuracy +
		weightEmpathy*cc.SubScores.Empathy +
		weightTimeliness*cc.SubScores.Timeliness +
		weightHygiene*cc.SubScores.Hygiene +
		weightCompliance*cc.SubScores.Compliance)

	return cc
}

func ownedByAny(stored string, patients []model.Patient) bool {
	for _, p := range patients {
		if patientid.Owns(stored, p) {
			return true
		}
	}
	return false
}
