package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Build merges credit and debit entries into one sequence ordered by date
// ascending and computes BalanceAfter for every entry by a left fold over
// the sorted order, starting from zero.
//
// The fold is strictly sequential: BalanceAfter depends on emission order,
// so this must never be parallelized or re-derived after a reorder.
//
// The sort is stable and keyed by date only. Upstream defines no tie-break
// for an invoice and a flight sharing the same date; collection order
// (credits first, then debits) is kept as the secondary key. Assumption,
// not observed behavior.
func Build(credits, debits []Entry) []Entry {
	entries := make([]Entry, 0, len(credits)+len(debits))
	entries = append(entries, credits...)
	entries = append(entries, debits...)

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	balance := decimal.Zero
	for i := range entries {
		balance = balance.Add(entries[i].HoursAdded).Sub(entries[i].HoursDeducted)
		entries[i].BalanceAfter = balance
	}

	return entries
}
