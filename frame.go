package gtrans

import "strings"

// markerWindow is how many characters of a line are searched for the quoted
// RPC id.
const markerWindow = 30

// runePrefix returns the first n characters of s.
func runePrefix(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

// FrameResponse extracts the RPC reply from a batchexecute response body.
//
// The body is not JSON: it is a sequence of lines, one of which carries the
// quoted RPC id within its first 30 characters. From that line on, whole lines are
// concatenated until the square brackets seen outside string literals
// balance. A quote preceded by a backslash does not open or close a string.
// Balance is only checked once the first bracket has been counted.
func FrameResponse(body string) (string, error) {
	marker := `"` + RPCID + `"`

	found := false
	open, closed := 0, 0
	var framed strings.Builder

	for _, line := range strings.Split(body, "\n") {
		if !found {
			found = strings.Contains(runePrefix(line, markerWindow), marker)
		}
		if !found {
			continue
		}

		inString := false
		for i := 0; i < len(line); i++ {
			switch c := line[i]; {
			case c == '"' && (i == 0 || line[i-1] != '\\'):
				inString = !inString
			case inString:
			case c == '[':
				open++
			case c == ']':
				closed++
			}
		}

		framed.WriteString(line)
		if open > 0 && open == closed {
			return framed.String(), nil
		}
	}

	if !found {
		return "", &FramingError{Message: "rpc marker not found"}
	}
	return "", &FramingError{Message: "unbalanced response"}
}
