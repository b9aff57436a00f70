// Package boost extracts deterministic keyword boost terms from a question.
// Years, month names, quarter tokens, and store/warehouse references are the
// terms that discriminate best between otherwise similar business documents.
package boost

import (
	"regexp"
	"strings"
)

var (
	yearRegex      = regexp.MustCompile(`\b20[12][0-9]\b`)
	quarterRegex   = regexp.MustCompile(`(?i)\bQ[1-4]\b`)
	storeRegex     = regexp.MustCompile(`(?i)\bstore\s*#?(\d+)`)
	warehouseRegex = regexp.MustCompile(`(?i)\bwarehouse\s*#?(\d+)`)
)

var months = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// Terms extracts boost terms from question text. Output order is
// deterministic: years in order of appearance, months in calendar order,
// then quarters, stores, and warehouses. Duplicates are dropped.
func Terms(question string) []string {
	var terms []string
	seen := make(map[string]bool)

	add := func(t string) {
		key := strings.ToLower(t)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		terms = append(terms, t)
	}

	for _, y := range yearRegex.FindAllString(question, -1) {
		add(y)
	}

	lower := strings.ToLower(question)
	for _, m := range months {
		if strings.Contains(lower, m) {
			add(m)
		}
	}

	for _, q := range quarterRegex.FindAllString(question, -1) {
		add(strings.ToUpper(q))
	}

	for _, m := range storeRegex.FindAllStringSubmatch(question, -1) {
		add("Store " + m[1])
	}
	for _, m := range warehouseRegex.FindAllStringSubmatch(question, -1) {
		add("Warehouse " + m[1])
	}

	return terms
}
