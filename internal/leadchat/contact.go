package leadchat

import "strings"

// IsContact reports whether free text looks like contact information: it
// contains '@' or a run of 8 or more consecutive decimal digits. The
// heuristic is deliberately false-positive tolerant — an extra captured lead
// is cheaper than a lost one.
func IsContact(text string) bool {
	if strings.ContainsRune(text, '@') {
		return true
	}
	run := 0
	for _, r := range text {
		if r >= '0' && r <= '9' {
			run++
			if run >= 8 {
				return true
			}
			continue
		}
		run = 0
	}
	return false
}
