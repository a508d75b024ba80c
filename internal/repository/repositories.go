package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/templui/carepledge/internal/model"
)

// Repositories groups every collection the service reads or writes so the
// backend (memory or SQL) is chosen in one place.
type Repositories struct {
	Goals        GoalRepository
	Pledges      PledgeRepository
	Patients     PatientRepository
	Staff        StaffRepository
	Alerts       AlertRepository
	Tips         TipRepository
	Appointments AppointmentRepository
	Ratings      RatingRepository
	Ledger       LedgerRepository
}

func NewSQL(db *sqlx.DB) *Repositories {
	return &Repositories{
		Goals:        NewGoalRepository(db),
		Pledges:      NewPledgeRepository(db),
		Patients:     NewPatientRepository(db),
		Staff:        NewStaffRepository(db),
		Alerts:       NewAlertRepository(db),
		Tips:         NewTipRepository(db),
		Appointments: NewAppointmentRepository(db),
		Ratings:      NewRatingRepository(db),
		Ledger:       NewLedgerRepository(db),
	}
}

// NewMemory returns process-local repositories. State is lost on restart.
func NewMemory() *Repositories {
	return &Repositories{
		Goals:        NewMemoryGoalRepository(),
		Pledges:      NewMemoryPledgeRepository(),
		Patients:     NewMemoryPatientRepository(),
		Staff:        memoryStaffRepository{newMemoryCollection[model.Staff]()},
		Alerts:       memoryAlertRepository{newMemoryCollection[model.Alert]()},
		Tips:         memoryTipRepository{newMemoryCollection[model.Tip]()},
		Appointments: memoryAppointmentRepository{newMemoryCollection[model.Appointment]()},
		Ratings:      memoryRatingRepository{newMemoryCollection[model.Rating]()},
		Ledger:       memoryLedgerRepository{newMemoryCollection[model.LedgerEntry]()},
	}
}
