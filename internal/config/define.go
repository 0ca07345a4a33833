package config

import (
	"strconv"
	"strings"
)

// Define is a macro from Verilog.Defines. NAME and NAME= both define an empty
// macro.
type Define struct {
	Name  string
	Value string
}

// ParseDefine splits s on the first '='. The value is unescaped like a
// quoted literal; an invalid escape drops the value but keeps the name.
func ParseDefine(s string) Define {
	name, rest, found := strings.Cut(s, "=")
	d := Define{Name: name}
	if !found {
		return d
	}
	v, err := unescape(rest)
	if err != nil {
		return d
	}
	d.Value = v
	return d
}

func unescape(s string) (string, error) {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strconv.Unquote(s)
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteByte(c)
			if i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			}
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return strconv.Unquote(b.String())
}
