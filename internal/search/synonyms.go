package search

import (
	"sort"
	"strings"
)

// globalSynonyms maps canonical clinical terms to their variant
// spellings, abbreviations, and colloquialisms. The table is static;
// per-document synonyms live on the index entries themselves.
var globalSynonyms = map[string][]string{
	// Common abbreviations.
	"major depressive disorder":                {"mdd", "depression", "clinical depression", "unipolar depression"},
	"generalized anxiety disorder":             {"gad", "anxiety", "anxiety disorder"},
	"post-traumatic stress disorder":           {"ptsd", "trauma", "traumatic stress"},
	"attention deficit hyperactivity disorder": {"adhd", "add", "attention deficit"},
	"obsessive-compulsive disorder":            {"ocd"},
	"bipolar disorder":                         {"bipolar", "manic depression", "bpd"},
	"selective serotonin reuptake inhibitor":   {"ssri", "ssris"},
	"serotonin-norepinephrine reuptake inhibitor": {"snri", "snris"},
	"antidepressant":  {"antidepressants", "ad"},
	"antipsychotic":   {"antipsychotics", "neuroleptic", "neuroleptics"},
	"mood stabilizer": {"mood stabilizers"},
	"benzodiazepine":  {"benzodiazepines", "benzo", "benzos"},
	"stimulant":       {"stimulants"},

	// Medication classes.
	"ssris": {"selective serotonin reuptake inhibitors", "ssri"},
	"snris": {"serotonin-norepinephrine reuptake inhibitors", "snri"},
	"tcas":  {"tricyclic antidepressants", "tca"},
	"maois": {"monoamine oxidase inhibitors", "maoi"},

	// Common terms.
	"suicide":          {"suicidal", "suicidality", "self-harm"},
	"overdose":         {"od", "poisoning"},
	"withdrawal":       {"discontinuation", "tapering"},
	"side effect":      {"adverse effect", "adverse reaction", "adr"},
	"drug interaction": {"interaction", "drug-drug interaction", "ddi"},

	// Conditions.
	"schizophrenia":          {"schizophrenic", "schizoaffective"},
	"insomnia":               {"sleep disorder", "sleep disturbance"},
	"substance use disorder": {"sud", "addiction", "substance abuse", "substance dependence"},
}

// Expand turns a free-text query into the set of terms to score. The
// query is lowercased and trimmed; for every table pair where the
// query contains the term or the term contains the query, the
// canonical term and all its variants join the set. The normalized
// query is always included. Substring containment in both directions
// over-matches short queries on purpose: recall beats precision for
// short clinical queries.
func Expand(query string) []string {
	normalized := strings.TrimSpace(strings.ToLower(query))
	seen := map[string]bool{normalized: true}
	terms := []string{normalized}

	add := func(t string) {
		if !seen[t] {
			seen[t] = true
			terms = append(terms, t)
		}
	}

	// Deterministic iteration keeps expansion output stable.
	canonicals := make([]string, 0, len(globalSynonyms))
	for c := range globalSynonyms {
		canonicals = append(canonicals, c)
	}
	sort.Strings(canonicals)

	for _, canonical := range canonicals {
		variants := globalSynonyms[canonical]
		matched := contains(canonical, normalized)
		for _, v := range variants {
			if contains(v, normalized) {
				matched = true
				break
			}
		}
		if matched {
			add(canonical)
			for _, v := range variants {
				add(v)
			}
		}
	}
	return terms
}

func contains(term, query string) bool {
	return strings.Contains(term, query) || strings.Contains(query, term)
}
