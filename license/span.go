package license

import "regexp"

// spanRule finds a run of body characters right after prefix that is
// followed by stop. Greedy rules prefer the longest run, lazy rules the
// shortest. A nil stop accepts the longest run.
type spanRule struct {
	prefix     *regexp.Regexp
	body       func(c byte) bool
	min, max   int // max 0 means unbounded
	greedy     bool
	firstUpper bool
	stop       *regexp.Regexp
}

func (r spanRule) find(text string) string {
	for _, loc := range r.prefix.FindAllStringIndex(text, -1) {
		start := loc[1]
		n := 0
		for start+n < len(text) && r.body(text[start+n]) && (r.max == 0 || n < r.max) {
			n++
		}
		if n < r.min || (r.firstUpper && !isUpper(text[start])) {
			continue
		}
		if r.stop == nil {
			return text[start : start+n]
		}
		if r.greedy {
			for l := n; l >= r.min; l-- {
				if r.stop.MatchString(text[start+l:]) {
					return text[start : start+l]
				}
			}
			continue
		}
		for l := r.min; l <= n; l++ {
			if r.stop.MatchString(text[start+l:]) {
				return text[start : start+l]
			}
		}
	}
	return ""
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isUpperOrSpace(c byte) bool { return isUpper(c) || c == ' ' }

func isClassChar(c byte) bool { return isUpperOrSpace(c) || c == ',' }
