package trip

import (
	"errors"
	"math"
	"testing"

	"github.com/mchou/campnook/internal/model"
)

func TestAddBillValidation(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	if err := o.AddBill("user_mom", "冰塊", 0, "12/25"); err == nil {
		t.Fatal("expected error for zero amount")
	}
	if err := o.AddBill("ghost", "冰塊", 100, "12/25"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown payer, got %v", err)
	}
	if err := o.AddBill("user_mom", "冰塊", 100, "12/25"); err != nil {
		t.Fatalf("AddBill: %v", err)
	}
}

func TestDeleteBillRules(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	// bill_groceries was paid by user_mom.
	if err := o.DeleteBill("bill_groceries", "user_sis"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := o.DeleteBill("bill_groceries", "user_mom"); err != nil {
		t.Fatalf("payer delete: %v", err)
	}
	// Admin can delete anyone's.
	if err := o.DeleteBill("bill_deposit", "user_dad"); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if err := o.DeleteBill("bill_deposit", "user_dad"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSettlement(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	// Starter bills: dad paid 3100, mom 1500, sis and bro nothing.
	// Total 4600, share 1150 each.
	transfers := o.Settlement()

	owed := map[string]float64{}
	for _, tr := range transfers {
		if tr.Amount <= 0 {
			t.Errorf("non-positive transfer: %+v", tr)
		}
		owed[tr.From] += tr.Amount
		owed[tr.To] -= tr.Amount
	}

	want := map[string]float64{
		"user_sis": 1150,
		"user_bro": 1150,
		"user_mom": -350,
		"user_dad": -1950,
	}
	for id, amount := range want {
		if math.Abs(owed[id]-amount) > 0.01 {
			t.Errorf("%s nets %.2f, want %.2f", id, owed[id], amount)
		}
	}
}

func TestSettlementEmpty(t *testing.T) {
	o := newTestOrchestrator(t, nil)
	o.mu.Lock()
	o.data.Bills = nil
	o.mu.Unlock()

	if got := o.Settlement(); got != nil {
		t.Fatalf("expected no transfers, got %v", got)
	}
}

func TestSettlementIgnoresDepartedPayer(t *testing.T) {
	o := newTestOrchestrator(t, nil)
	o.mu.Lock()
	o.data.Members = []model.Member{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	o.data.Bills = []model.Bill{
		{ID: "1", PayerID: "a", Amount: 600},
		{ID: "2", PayerID: "ghost", Amount: 900},
	}
	o.mu.Unlock()

	// Only A's 600 counts: share 300, B owes A 300. The departed
	// payer's 900 must not inflate anyone's share.
	transfers := o.Settlement()
	if len(transfers) != 1 {
		t.Fatalf("transfers = %+v, want exactly one", transfers)
	}
	tr := transfers[0]
	if tr.From != "b" || tr.To != "a" || math.Abs(tr.Amount-300) > 0.01 {
		t.Errorf("transfer = %+v, want b pays a 300", tr)
	}

	// All remaining bills from departed payers: nothing to settle.
	o.mu.Lock()
	o.data.Bills = []model.Bill{{ID: "2", PayerID: "ghost", Amount: 900}}
	o.mu.Unlock()
	if got := o.Settlement(); got != nil {
		t.Fatalf("expected no transfers, got %v", got)
	}
}

func TestSettlementBalanced(t *testing.T) {
	o := newTestOrchestrator(t, nil)
	o.mu.Lock()
	o.data.Members = []model.Member{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	o.data.Bills = []model.Bill{
		{ID: "1", PayerID: "a", Amount: 500},
		{ID: "2", PayerID: "b", Amount: 500},
	}
	o.mu.Unlock()

	if got := o.Settlement(); len(got) != 0 {
		t.Fatalf("balanced books need no transfers, got %v", got)
	}
}
