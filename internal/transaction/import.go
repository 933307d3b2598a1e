package transaction

// Conflict pairs an incoming record with the stored transaction it duplicates.
type Conflict struct {
	Incoming CreateParams
	Existing Transaction
}

// ImportResult splits a batch into records that can be stored and records
// that look like duplicates of existing ones.
type ImportResult struct {
	Imported  []Transaction
	New       []CreateParams
	Conflicts []Conflict
}

type dupKey struct {
	Date        string
	Amount      string
	Type        Type
	Description string
}

func keyOf(tx Transaction) dupKey {
	return dupKey{
		Date:        tx.Date.String(),
		Amount:      tx.Amount.String(),
		Type:        tx.Type,
		Description: tx.Description,
	}
}

// FindConflicts matches incoming params against existing transactions by
// date, amount, type and description.
func FindConflicts(existing []Transaction, incoming []CreateParams) ([]CreateParams, []Conflict) {
	lookup := make(map[dupKey]Transaction, len(existing))
	for _, tx := range existing {
		lookup[keyOf(tx)] = tx
	}

	var (
		fresh     []CreateParams
		conflicts []Conflict
	)

	for _, p := range incoming {
		found, ok := lookup[keyOf(p.Build(""))]
		if ok {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: found})
			continue
		}

		fresh = append(fresh, p)
	}

	return fresh, conflicts
}
