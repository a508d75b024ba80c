package aggregate

import (
	"sort"

	"github.com/templui/carepledge/internal/model"
)

const recentTipLimit = 5

type TipView struct {
	model.Tip
	HTML string `json:"html"`
}

type ProviderDashboard struct {
	ProviderID     string              `json:"providerId"`
	TotalPatients  int                 `json:"totalPatients"`
	CriticalAlerts int                 `json:"criticalAlerts"`
	ActivePledges  int                 `json:"activePledges"`
	TodaySchedule  []model.Appointment `json:"todaySchedule"`
	RecentTips     []TipView           `json:"recentTips"`
}

// ProviderDashboardFor summarizes one provider's panel. render turns a tip
// body into HTML; nil leaves HTML empty.
func ProviderDashboardFor(s Snapshot, providerID string, render func(string) string) ProviderDashboard {
	d := ProviderDashboard{
		ProviderID:    providerID,
		TodaySchedule: []model.Appointment{},
		RecentTips:    []TipView{},
	}

	for _, p := range s.Patients {
		if p.ProviderID == providerID {
			d.TotalPatients++
		}
	}

	for i := range s.Alerts {
		if s.Alerts[i].ProviderID == providerID && s.Alerts[i].IsOpenCritical() {
			d.CriticalAlerts++
		}
	}

	for _, p := range s.Pledges {
		if p.ProviderID == providerID && !p.IsTerminal() {
			d.ActivePledges++
		}
	}

	y, m, day := s.Now.Date()
	for _, a := range s.Appointments {
		ay, am, ad := a.ScheduledAt.In(s.Now.Location()).Date()
		if a.ProviderID == providerID && ay == y && am == m && ad == day {
			d.TodaySchedule = append(d.TodaySchedule, a)
		}
	}
	sort.SliceStable(d.TodaySchedule, func(i, j int) bool {
		return d.TodaySchedule[i].ScheduledAt.Before(d.TodaySchedule[j].ScheduledAt)
	})

	var tips []model.Tip
	for _, t := range s.Tips {
		if t.ProviderID == providerID {
			tips = append(tips, t)
		}
	}
	sort.SliceStable(tips, func(i, j int) bool {
		return tips[i].CreatedAt.After(tips[j].CreatedAt)
	})
	for _, t := range tips[:min(len(tips), recentTipLimit)] {
		view := TipView{Tip: t}
		if render != nil {
			view.HTML = render(t.Body)
		}
		d.RecentTips = append(d.RecentTips, view)
	}

	return d
}
