package discovery

import (
	"slices"

	"github.com/google/uuid"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

// dedupe merges partition results, keeping the best-ranked cycle per
// participant set. Two directions around the same three items share a key.
func dedupe(parts [][]Candidate) []Candidate {
	best := make(map[string]int)
	var out []Candidate
	for _, cands := range parts {
		for _, c := range cands {
			if i, ok := best[c.Key]; ok {
				if better(&c, &out[i]) {
					out[i] = c
				}
				continue
			}
			best[c.Key] = len(out)
			out = append(out, c)
		}
	}
	return out
}

// selectCandidates ranks all candidates globally and admits them in order,
// skipping sets that are already active or cooling down and items that have
// reached their opportunity cap.
func (e *Engine) selectCandidates(cands []Candidate, snap *domain.Snapshot) []Candidate {
	slices.SortFunc(cands, func(a, b Candidate) int {
		switch {
		case better(&a, &b):
			return -1
		case better(&b, &a):
			return 1
		}
		return 0
	})

	load := make(map[uuid.UUID]int)
	var selected []Candidate
	for _, c := range cands {
		if _, ok := snap.ActiveKeys[c.Key]; ok {
			continue
		}
		if _, ok := snap.CooldownKeys[c.Key]; ok {
			continue
		}
		if !e.fits(c, snap, load) {
			continue
		}
		for _, p := range c.Participants {
			load[p.ItemID]++
		}
		selected = append(selected, c)
	}
	return selected
}

func (e *Engine) fits(c Candidate, snap *domain.Snapshot, load map[uuid.UUID]int) bool {
	for _, p := range c.Participants {
		if snap.ActiveParticipation[p.ItemID]+load[p.ItemID] >= e.cfg.MaxOpportunitiesPerItem {
			return false
		}
	}
	return true
}
