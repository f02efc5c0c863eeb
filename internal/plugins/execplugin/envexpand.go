package execplugin

import "strings"

// expandEnvVars implements spec.md §4.5's mini-parser: "$$" -> literal "$",
// "${NAME}" -> env[NAME] (left as-is on miss), "$NAME" -> greedy
// [A-Za-z0-9_]+ lookup (left as-is on miss). A lone trailing "$" is
// preserved.
func expandEnvVars(s string, env map[string]string) string {
	var b strings.Builder
	n := len(s)
	for i := 0; i < n; {
		c := s[i]
		if c != '$' {
			b.WriteByte(c)
			i++
			continue
		}

		if i+1 >= n {
			b.WriteByte('$')
			i++
			continue
		}

		switch next := s[i+1]; {
		case next == '$':
			b.WriteByte('$')
			i += 2
		case next == '{':
			end := strings.IndexByte(s[i+2:], '}')
			if end == -1 {
				b.WriteByte('$')
				i++
				continue
			}
			name := s[i+2 : i+2+end]
			if val, ok := env[name]; ok {
				b.WriteString(val)
			} else {
				b.WriteString("${" + name + "}")
			}
			i = i + 2 + end + 1
		default:
			j := i + 1
			for j < n && isNameByte(s[j]) {
				j++
			}
			if j == i+1 {
				b.WriteByte('$')
				i++
				continue
			}
			name := s[i+1 : j]
			if val, ok := env[name]; ok {
				b.WriteString(val)
			} else {
				b.WriteString("$" + name)
			}
			i = j
		}
	}
	return b.String()
}

func isNameByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}
