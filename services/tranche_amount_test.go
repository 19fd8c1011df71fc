package services

import "testing"

func TestTrancheAmountTwoTranchePlan(t *testing.T) {
	// 1000 over two tranches: half up front, remainder after the first is paid.
	first := TrancheAmount(2, 1000, 0, 0, true)
	if first != 500 {
		t.Fatalf("expected first tranche of 500, got %.2f", first)
	}

	second := TrancheAmount(2, 1000, 500, 1, false)
	if second != 500 {
		t.Fatalf("expected second tranche of 500, got %.2f", second)
	}
}

func TestTrancheAmountThreeTranchePlan(t *testing.T) {
	first := TrancheAmount(3, 1000, 0, 0, true)
	if first != 300 {
		t.Fatalf("expected first tranche of 300, got %.2f", first)
	}

	second := TrancheAmount(3, 1000, 300, 1, false)
	if second != 300 {
		t.Fatalf("expected second tranche of 300, got %.2f", second)
	}

	third := TrancheAmount(3, 1000, 600, 2, false)
	if third != 400 {
		t.Fatalf("expected third tranche of 400, got %.2f", third)
	}
}

func TestTrancheAmountFourTranchePlan(t *testing.T) {
	cases := []struct {
		name      string
		totalPaid float64
		existing  int
		isFirst   bool
		want      float64
	}{
		{"first", 0, 0, true, 300},
		{"second", 300, 1, false, 300},
		{"third takes remainder", 600, 2, false, 400},
		{"fourth takes remainder", 1000, 3, false, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TrancheAmount(4, 1000, tc.totalPaid, tc.existing, tc.isFirst)
			if got != tc.want {
				t.Fatalf("expected %.2f, got %.2f", tc.want, got)
			}
		})
	}
}

func TestTrancheAmountRoundsHalfUp(t *testing.T) {
	// 30% of 1005 is 301.5 and rounds up to 302.
	if got := TrancheAmount(3, 1005, 0, 0, true); got != 302 {
		t.Fatalf("expected 302, got %.2f", got)
	}

	// Half of a remaining 1001 is 500.5 and rounds up to 501.
	if got := TrancheAmount(2, 1001, 0, 0, true); got != 501 {
		t.Fatalf("expected 501, got %.2f", got)
	}
}

func TestTrancheAmountUnknownPlanYieldsZero(t *testing.T) {
	if got := TrancheAmount(0, 1000, 0, 0, true); got != 0 {
		t.Fatalf("expected 0 for unplanned application, got %.2f", got)
	}
	if got := TrancheAmount(5, 1000, 0, 0, true); got != 0 {
		t.Fatalf("expected 0 for oversized plan, got %.2f", got)
	}
}

func TestTrancheAmountSequenceExhaustsApprovedAmount(t *testing.T) {
	// Drawing every installment in order never exceeds the remainder and pays
	// out exactly the approved amount by the end of the plan.
	amounts := []float64{1, 7, 100, 333, 1000, 1001, 1005, 99999}

	for totalTranches := 2; totalTranches <= 4; totalTranches++ {
		for _, approved := range amounts {
			totalPaid := 0.0
			for existing := 0; existing < totalTranches; existing++ {
				amount := TrancheAmount(totalTranches, approved, totalPaid, existing, existing == 0)
				remaining := approved - totalPaid
				if amount > remaining {
					t.Fatalf("plan %d, approved %.0f, tranche %d: amount %.2f exceeds remaining %.2f",
						totalTranches, approved, existing+1, amount, remaining)
				}
				totalPaid += amount
			}
			if totalPaid != approved {
				t.Fatalf("plan %d, approved %.0f: paid out %.2f", totalTranches, approved, totalPaid)
			}
		}
	}
}
