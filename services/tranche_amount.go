package services

import "math"

// MaxTranchesPerApplication caps the number of non-rejected tranches a grant
// application may accumulate, including plan extensions.
const MaxTranchesPerApplication = 4

// TrancheAmount computes the payout for the next tranche of an application.
//
// totalTranches is the application's planned installment count (2, 3 or 4),
// existing the number of non-rejected tranches already created. The first two
// installments of a 3- or 4-tranche plan take 30% of the approved amount
// each; every later installment takes whatever remains unpaid at the time of
// the request, so earlier rejections and payments are reflected naturally. A
// 2-tranche plan splits the remainder in half up front.
//
// Amounts are rounded half-up to whole units of the payout token. A result
// larger than the remaining amount is the caller's problem to reject; it is
// never clamped here.
func TrancheAmount(totalTranches int, approvedAmount, totalPaid float64, existing int, isFirstTranche bool) float64 {
	remaining := approvedAmount - totalPaid

	switch totalTranches {
	case 2:
		if isFirstTranche {
			return roundHalfUp(remaining * 0.5)
		}
		if existing == 1 {
			return remaining
		}
	case 3:
		if isFirstTranche {
			return roundHalfUp(approvedAmount * 0.3)
		}
		switch existing {
		case 1:
			return roundHalfUp(approvedAmount * 0.3)
		case 2:
			return remaining
		}
	case 4:
		if isFirstTranche {
			return roundHalfUp(approvedAmount * 0.3)
		}
		switch existing {
		case 1:
			return roundHalfUp(approvedAmount * 0.3)
		case 2, 3:
			return remaining
		}
	}

	return 0
}

// roundHalfUp rounds a non-negative amount to the nearest whole unit, halves
// away from zero.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
