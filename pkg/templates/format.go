package templates

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrFormat             = errors.New("template format error")
	ErrUnknownPlaceholder = errors.Wrap(ErrFormat, "unknown placeholder")
	ErrMalformedTemplate  = errors.Wrap(ErrFormat, "malformed template")
)

// Values holds the named arguments for a single Format call.
type Values map[string]string

// Format expands {name} placeholders in tpl the way python's str.format does
// with keyword arguments. "{{" and "}}" produce literal braces. Anything after
// a ':' or '!' inside a placeholder is accepted and ignored.
//
// Substituted values are never re-scanned for placeholders.
func Format(tpl string, values Values) (string, error) {
	var b strings.Builder
	b.Grow(len(tpl))

	for i := 0; i < len(tpl); i++ {
		c := tpl[i]
		switch c {
		case '{':
			if i+1 < len(tpl) && tpl[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tpl[i+1:], '}')
			if end < 0 {
				return "", errors.Wrapf(ErrMalformedTemplate, "unclosed '{' at offset %d", i)
			}
			field := tpl[i+1 : i+1+end]
			if strings.IndexByte(field, '{') >= 0 {
				return "", errors.Wrapf(ErrMalformedTemplate, "nested '{' at offset %d", i)
			}
			name := field
			if idx := strings.IndexAny(name, ":!"); idx >= 0 {
				name = name[:idx]
			}
			v, ok := values[name]
			if !ok {
				if name == "" || isDigits(name) {
					return "", errors.Wrapf(ErrUnknownPlaceholder, "positional placeholder {%s} is not supported", name)
				}
				return "", errors.Wrapf(ErrUnknownPlaceholder, "{%s}", name)
			}
			b.WriteString(v)
			i += end + 1
		case '}':
			if i+1 < len(tpl) && tpl[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", errors.Wrapf(ErrMalformedTemplate, "single '}' at offset %d", i)
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
