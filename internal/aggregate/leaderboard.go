package aggregate

import (
	"sort"

	"github.com/templui/carepledge/internal/model"
)

type LeaderboardEntry struct {
	Rank            int     `json:"rank"`
	StaffID         string  `json:"staffId"`
	Name            string  `json:"name"`
	Role            string  `json:"role"`
	RPI             float64 `json:"rpi"`
	SatisfactionPct float64 `json:"satisfactionPct"`
	AdherencePct    float64 `json:"adherencePct"`
	TokenEarnings   int     `json:"tokenEarnings"`
	CriticalAlerts  int     `json:"criticalAlerts"`
	PatientCount    int     `json:"patientCount"`
}

// RPI is the provider performance index, clamped to 0..100:
//
//	0.3*satisfaction + 0.3*adherence + 0.2*(tokens/1000) - 2*criticalAlerts
func RPI(satisfactionPct, adherencePct float64, tokenEarnings, criticalAlerts int) float64 {
	raw := 0.3*satisfactionPct + 0.3*adherencePct + 0.2*(float64(tokenEarnings)/1000) - 2*float64(criticalAlerts)
	return round1(clamp(raw, 0, 100))
}

// Leaderboard ranks every non-admin staff member by RPI, ties broken by name.
func Leaderboard(s Snapshot) []LeaderboardEntry {
	earnings := make(map[string]int)
	for _, e := range s.Ledger {
		if e.Kind == model.LedgerMint {
			earnings[e.StaffID] += e.Amount
		}
	}

	critical := make(map[string]int)
	for i := range s.Alerts {
		if s.Alerts[i].IsOpenCritical() {
			critical[s.Alerts[i].ProviderID]++
		}
	}

	entries := []LeaderboardEntry{}
	for i := range s.Staff {
		st := s.Staff[i]
		if st.IsAdmin() {
			continue
		}

		scope := map[string]bool{st.ID: true}
		patients := s.patientsOf(scope)
		score, _ := averageScore(s.ratingsOf(scope))
		adherence, _ := averageAdherence(patients)

		satisfaction := round1(score * 20)
		adherence = round1(adherence)
		entries = append(entries, LeaderboardEntry{
			StaffID:         st.ID,
			Name:            st.Name,
			Role:            st.Role,
			RPI:             RPI(satisfaction, adherence, earnings[st.ID], critical[st.ID]),
			SatisfactionPct: satisfaction,
			AdherencePct:    adherence,
			TokenEarnings:   earnings[st.ID],
			CriticalAlerts:  critical[st.ID],
			PatientCount:    len(patients),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].RPI != entries[j].RPI {
			return entries[i].RPI > entries[j].RPI
		}
		return entries[i].Name < entries[j].Name
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}
