package extract

import "strings"

// AssembleText joins recognized fragments with single spaces and trims the
// ends. Inner spacing is preserved.
func AssembleText(fragments []string) string {
	return strings.TrimSpace(strings.Join(fragments, " "))
}
