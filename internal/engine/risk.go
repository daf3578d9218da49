package engine

// pipValuePerLot is the value of one pip for a standard lot on a
// USD-quoted pair.
const pipValuePerLot = 10.0

// ComputeLotSize returns the cash amount at risk and the lot size that
// keeps a stop of slPips within riskPct of the balance.
func ComputeLotSize(balance, riskPct, slPips float64) (riskAmount, lot float64) {
	riskAmount = balance * riskPct / 100
	if slPips <= 0 {
		return riskAmount, 0
	}
	lot = riskAmount / (slPips * pipValuePerLot)
	return riskAmount, lot
}
