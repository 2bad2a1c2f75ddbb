package client

// ReconcilePlan lists the single-category calls needed to move a note's
// current category set to a target set.
type ReconcilePlan struct {
	ToAdd    []uint
	ToRemove []uint
}

func (p ReconcilePlan) Empty() bool {
	return len(p.ToAdd) == 0 && len(p.ToRemove) == 0
}

// BuildReconcilePlan computes toAdd = target - current and
// toRemove = current - target over category ids. Input duplicates are
// collapsed; the call order of the resulting plan does not matter because
// the server treats redundant assigns and removes as no-ops.
func BuildReconcilePlan(current, target []uint) ReconcilePlan {
	currentSet := make(map[uint]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}
	targetSet := make(map[uint]struct{}, len(target))
	for _, id := range target {
		targetSet[id] = struct{}{}
	}

	var plan ReconcilePlan
	seen := make(map[uint]struct{}, len(target))
	for _, id := range target {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := currentSet[id]; !ok {
			plan.ToAdd = append(plan.ToAdd, id)
		}
	}

	seen = make(map[uint]struct{}, len(current))
	for _, id := range current {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := targetSet[id]; !ok {
			plan.ToRemove = append(plan.ToRemove, id)
		}
	}

	return plan
}
