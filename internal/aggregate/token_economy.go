package aggregate

import "github.com/templui/carepledge/internal/model"

type TokenEconomy struct {
	TotalMinted             int     `json:"totalMinted"`
	TotalBurned             int     `json:"totalBurned"`
	TotalDonated            int     `json:"totalDonated"`
	CirculatingLiability    int     `json:"circulatingLiability"`
	CirculatingLiabilityUSD float64 `json:"circulatingLiabilityUSD"`
	RemorsePool             int     `json:"remorsePool"`
	RemorsePoolUSD          float64 `json:"remorsePoolUSD"`
	CSRFundValue            float64 `json:"csrFundValue"`
	ESGImpactUSD            float64 `json:"esgImpactUSD"`
	RDMPerUSD               int     `json:"rdmPerUSD"`
}

// TokenEconomyOf totals the ledger. Liability is what has been minted and
// not yet burned or donated.
func TokenEconomyOf(s Snapshot) TokenEconomy {
	te := TokenEconomy{RDMPerUSD: model.RDMPerUSD}

	for _, e := range s.Ledger {
		switch e.Kind {
		case model.LedgerMint:
			te.TotalMinted += e.Amount
		case model.LedgerBurn:
			te.TotalBurned += e.Amount
			if e.Reason == model.BurnReasonRemorse {
				te.RemorsePool += e.Amount
			}
		case model.LedgerDonation:
			te.TotalDonated += e.Amount
		}
	}

	te.CirculatingLiability = te.TotalMinted - te.TotalBurned - te.TotalDonated
	te.CirculatingLiabilityUSD = model.RDMToUSD(te.CirculatingLiability)
	te.RemorsePoolUSD = model.RDMToUSD(te.RemorsePool)
	te.CSRFundValue = model.RDMToUSD(te.TotalDonated)
	te.ESGImpactUSD = te.CSRFundValue + te.RemorsePoolUSD

	return te
}
