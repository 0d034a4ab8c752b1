// Package matching ranks hosts for a traveler by shared interests,
// shared languages and familiarity with the host's country.
package matching

import (
	"sort"
	"strings"

	"github.com/femmepacker/server/internal/models"
)

const (
	// MaxResults caps how many hosts a single match request returns.
	MaxResults = 5

	interestWeight = 2
	languageWeight = 1
	locationBonus  = 3

	maxNamedInterests = 2
	fallbackReason    = "compatible travel style"
)

// Result is one ranked host with the reasons it was suggested.
type Result struct {
	Host    models.Profile
	Score   int
	Reasons []string
}

// FindHosts returns up to MaxResults hosts from candidates for requester,
// highest score first. Equal scores are ordered by profile id ascending.
// The requester's own profile and profiles that cannot host are skipped.
func FindHosts(requester models.Profile, candidates []models.Profile) []Result {
	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		if !c.CanHost || c.ID == requester.ID {
			continue
		}
		score, reasons := Score(requester, c)
		results = append(results, Result{Host: c, Score: score, Reasons: reasons})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Host.ID < results[j].Host.ID
	})

	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	return results
}

// Score computes the match score of candidate for requester. The returned
// reasons are never empty.
func Score(requester, candidate models.Profile) (int, []string) {
	score := 0
	var reasons []string

	common := intersect(requester.Interests, candidate.Interests)
	score += interestWeight * len(common)
	if len(common) > 0 {
		named := common
		if len(named) > maxNamedInterests {
			named = named[:maxNamedInterests]
		}
		reasons = append(reasons, "shares "+strings.Join(named, ", "))
	}

	commonLang := intersect(requester.Languages, candidate.Languages)
	score += languageWeight * len(commonLang)
	if len(commonLang) > 0 {
		reasons = append(reasons, "speaks "+commonLang[0])
	}

	// Having been to the host's country only lifts the rank.
	if candidate.Country != "" && contains(requester.PreviousLocations, candidate.Country) {
		score += locationBonus
	}

	if len(reasons) == 0 {
		reasons = []string{fallbackReason}
	}
	return score, reasons
}

// intersect returns the distinct values of a that also appear in b, in the
// order they first occur in a. Comparison is case-sensitive.
func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	inB := make(map[string]struct{}, len(b))
	for _, v := range b {
		inB[v] = struct{}{}
	}
	seen := make(map[string]struct{}, len(a))
	var out []string
	for _, v := range a {
		if _, ok := inB[v]; !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
