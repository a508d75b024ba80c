package model

import "time"

const (
	LedgerMint     = "mint"
	LedgerBurn     = "burn"
	LedgerDonation = "donation"
)

const (
	BurnReasonRemorse = "remorse"
	BurnReasonRedeem  = "redeem"
)

// RDMPerUSD is the fixed token conversion rate.
const RDMPerUSD = 100

// LedgerEntry is one token movement. StaffID attributes mints to the staff
// member whose patient earned them.
type LedgerEntry struct {
	ID        string    `db:"id" json:"id"`
	Kind      string    `db:"kind" json:"kind"`
	Amount    int       `db:"amount" json:"amount"`
	StaffID   string    `db:"staff_id" json:"staffId"`
	PatientID string    `db:"patient_id" json:"patientId"`
	Reason    string    `db:"reason" json:"reason"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

func RDMToUSD(amount int) float64 {
	return float64(amount) / RDMPerUSD
}
