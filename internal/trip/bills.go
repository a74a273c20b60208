package trip

import (
	"fmt"
	"math"
	"sort"

	"github.com/mchou/campnook/internal/model"
)

// AddBill records a shared expense fronted by a member.
func (o *Orchestrator) AddBill(payerID, item string, amount float64, date string) error {
	if amount <= 0 {
		return fmt.Errorf("bill amount must be positive")
	}
	return o.update(func(d *model.AppData) error {
		if findMember(d, payerID) == nil {
			return ErrNotFound
		}
		d.Bills = append(d.Bills, model.Bill{
			ID:      o.newID(),
			PayerID: payerID,
			Item:    item,
			Amount:  amount,
			Date:    date,
		})
		return nil
	})
}

// DeleteBill removes an expense. Only the payer or an admin may remove
// it.
func (o *Orchestrator) DeleteBill(billID, actorID string) error {
	return o.update(func(d *model.AppData) error {
		actor := findMember(d, actorID)
		if actor == nil {
			return ErrNotFound
		}
		for i := range d.Bills {
			if d.Bills[i].ID != billID {
				continue
			}
			if !actor.IsAdmin && d.Bills[i].PayerID != actorID {
				return ErrNotOwner
			}
			d.Bills = append(d.Bills[:i], d.Bills[i+1:]...)
			return nil
		}
		return ErrNotFound
	})
}

// Settlement splits the bill total evenly across the roster and returns
// the minimal set of transfers that squares everyone up. Amounts are
// rounded to cents; residue under a cent is dropped.
func (o *Orchestrator) Settlement() []model.Transfer {
	o.mu.Lock()
	defer o.mu.Unlock()
	return settle(o.data)
}

func settle(d *model.AppData) []model.Transfer {
	if len(d.Members) == 0 || len(d.Bills) == 0 {
		return nil
	}

	paid := make(map[string]float64, len(d.Members))
	for _, m := range d.Members {
		paid[m.ID] = 0
	}
	// Bills fronted by someone since removed from the roster are left
	// out: nobody is around to collect them.
	total := 0.0
	for _, b := range d.Bills {
		if _, onRoster := paid[b.PayerID]; !onRoster {
			continue
		}
		total += b.Amount
		paid[b.PayerID] += b.Amount
	}
	if total == 0 {
		return nil
	}
	share := total / float64(len(d.Members))

	type balance struct {
		id  string
		net float64
	}
	var creditors, debtors []balance
	for _, m := range d.Members {
		net := paid[m.ID] - share
		switch {
		case net > 0.005:
			creditors = append(creditors, balance{m.ID, net})
		case net < -0.005:
			debtors = append(debtors, balance{m.ID, -net})
		}
	}
	sort.Slice(creditors, func(i, j int) bool { return creditors[i].net > creditors[j].net })
	sort.Slice(debtors, func(i, j int) bool { return debtors[i].net > debtors[j].net })

	var transfers []model.Transfer
	ci, di := 0, 0
	for ci < len(creditors) && di < len(debtors) {
		amt := math.Min(creditors[ci].net, debtors[di].net)
		transfers = append(transfers, model.Transfer{
			From:   debtors[di].id,
			To:     creditors[ci].id,
			Amount: math.Round(amt*100) / 100,
		})
		creditors[ci].net -= amt
		debtors[di].net -= amt
		if creditors[ci].net < 0.005 {
			ci++
		}
		if debtors[di].net < 0.005 {
			di++
		}
	}
	return transfers
}
