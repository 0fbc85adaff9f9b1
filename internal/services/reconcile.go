package services

// Match pairs a persisted child with the submitted item carrying its id.
type Match[P, S any] struct {
	Persisted P
	Submitted S
}

// ChildDiff is the outcome of comparing a persisted child collection with a
// submitted one.
type ChildDiff[P, S any] struct {
	Update []Match[P, S]
	Delete []P
	Create []S
}

// DiffChildren partitions persisted and submitted children by id:
//
//   - persisted children whose id is submitted are paired in Update
//   - persisted children whose id is not submitted go to Delete
//   - submitted items without an id go to Create
//
// Submitted ids that match no persisted child are ignored. When an id is
// submitted twice the first occurrence wins. Output preserves input order.
func DiffChildren[P, S any](persisted []P, submitted []S, persistedID func(P) uint, submittedID func(S) *uint) ChildDiff[P, S] {
	var diff ChildDiff[P, S]

	byID := make(map[uint]S, len(submitted))
	for _, s := range submitted {
		id := submittedID(s)
		if id == nil {
			diff.Create = append(diff.Create, s)
			continue
		}
		if _, dup := byID[*id]; !dup {
			byID[*id] = s
		}
	}

	for _, p := range persisted {
		if s, ok := byID[persistedID(p)]; ok {
			diff.Update = append(diff.Update, Match[P, S]{Persisted: p, Submitted: s})
			continue
		}
		diff.Delete = append(diff.Delete, p)
	}
	return diff
}
