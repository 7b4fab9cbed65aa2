package dispatch

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// identRegexp validates placeholder names: letters, digits, and
// underscores, not starting with a digit.
var identRegexp = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// linkPart is one segment of a template used to rebuild concrete paths:
// a literal chunk optionally followed by a named placeholder.
type linkPart struct {
	literal string
	name    string
}

// pattern is the compiled form of a route template.
type pattern struct {
	template string         // template text as registered
	regexp   *regexp.Regexp // matcher anchored on both ends
	reverse  []linkPart     // segments for rebuilding concrete paths
	varsN    []string       // placeholder names in template order
}

// parsePlaceholder splits the inner text of a {...} token into the
// placeholder name and its capture group expression. An unconstrained
// placeholder matches one path segment; a constraint is either a macro
// name or a raw regexp.
func parsePlaceholder(tpl, inner string) (string, string, error) {
	name, constraint, constrained := strings.Cut(inner, ":")

	if name == "" {
		return "", "", fmt.Errorf("dispatch: missing placeholder name in %q from %q: %w", "{"+inner+"}", tpl, ErrInvalidTemplate)
	}
	if !identRegexp.MatchString(name) {
		return "", "", fmt.Errorf("dispatch: placeholder name %q in %q is not an identifier: %w", name, tpl, ErrInvalidTemplate)
	}

	if !constrained {
		return name, "[^/]+", nil
	}

	return name, expandMacro(constraint), nil
}

// compilePattern parses a route template and returns its compiled form.
//
// Every {name} placeholder becomes a capture group matching one or more
// characters excluding "/"; {name:pattern} narrows the group to a macro or
// a raw regexp; all other characters match literally. The resulting regexp
// matches the entire path (RFC 3986 Section 3.3), never a prefix.
func compilePattern(tpl string) (*pattern, error) {
	idxs, err := braceIndices(tpl)
	if err != nil {
		return nil, err
	}

	var (
		expr    strings.Builder
		reverse []linkPart
		varsN   []string
	)

	seen := make(map[string]bool, len(idxs)/2)
	expr.WriteByte('^')

	pos := 0
	for i := 0; i < len(idxs); i += 2 {
		start, stop := idxs[i], idxs[i+1]

		name, group, err := parsePlaceholder(tpl, tpl[start+1:stop-1])
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, fmt.Errorf("dispatch: duplicated placeholder %q in %q: %w", name, tpl, ErrInvalidTemplate)
		}
		seen[name] = true

		literal := tpl[pos:start]
		fmt.Fprintf(&expr, "%s(%s)", regexp.QuoteMeta(literal), group)
		reverse = append(reverse, linkPart{literal: literal, name: name})
		varsN = append(varsN, name)
		pos = stop
	}

	// Literal tail after the last placeholder.
	tail := tpl[pos:]
	expr.WriteString(regexp.QuoteMeta(tail))
	expr.WriteByte('$')
	if tail != "" {
		reverse = append(reverse, linkPart{literal: tail})
	}

	reg, err := cachedRegexp(expr.String())
	if err != nil {
		return nil, fmt.Errorf("dispatch: invalid pattern in %q: %w: %w", tpl, ErrInvalidTemplate, err)
	}

	return &pattern{
		template: tpl,
		regexp:   reg,
		reverse:  reverse,
		varsN:    varsN,
	}, nil
}

// match reports whether path matches the pattern.
func (p *pattern) match(path string) bool {
	return p.regexp.MatchString(path)
}

// capture matches path against the pattern and extracts placeholder values.
// The slice holds the values in placeholder order, next to the name-keyed
// map. Values are raw path substrings; no URL decoding happens here.
func (p *pattern) capture(path string) (map[string]string, []string, bool) {
	// Static templates skip the submatch machinery entirely.
	if len(p.varsN) == 0 {
		return nil, nil, p.regexp.MatchString(path)
	}

	matches := p.regexp.FindStringSubmatch(path)
	if matches == nil {
		return nil, nil, false
	}

	vars := make(map[string]string, len(p.varsN))
	ordered := make([]string, len(p.varsN))
	for i, name := range p.varsN {
		if i+1 >= len(matches) {
			break
		}
		vars[name] = matches[i+1]
		ordered[i] = matches[i+1]
	}

	return vars, ordered, true
}

// link rebuilds a concrete path from the template. Placeholders present in
// params are substituted with the raw value; absent placeholders render as
// bare {name} tokens, constraints stripped. Values are substituted as-is,
// with no URL encoding and no validation.
func (p *pattern) link(params map[string]string) string {
	var b strings.Builder
	for _, part := range p.reverse {
		b.WriteString(part.literal)
		if part.name == "" {
			continue
		}
		if v, ok := params[part.name]; ok {
			b.WriteString(v)
		} else {
			b.WriteByte('{')
			b.WriteString(part.name)
			b.WriteByte('}')
		}
	}

	return b.String()
}

// braceIndices returns the start and end+1 indices of each top-level {...}
// pair in s, flattened in pair order. Unbalanced braces are an error.
func braceIndices(s string) ([]int, error) {
	var (
		idxs  []int
		depth int
	)

	for i, c := range s {
		switch c {
		case '{':
			depth++
			if depth == 1 {
				idxs = append(idxs, i)
			}
		case '}':
			depth--
			if depth == 0 {
				idxs = append(idxs, i+1)
			}
			if depth < 0 {
				return nil, fmt.Errorf("dispatch: unbalanced braces in %q: %w", s, ErrInvalidTemplate)
			}
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("dispatch: unbalanced braces in %q: %w", s, ErrInvalidTemplate)
	}

	return idxs, nil
}

// compiledRegexps holds one compiled matcher per distinct expression.
// Templates sharing a constraint reuse the same entry, and the map stops
// growing once every route is registered.
var compiledRegexps sync.Map

func cachedRegexp(expr string) (*regexp.Regexp, error) {
	if hit, ok := compiledRegexps.Load(expr); ok {
		return hit.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	stored, _ := compiledRegexps.LoadOrStore(expr, re)

	return stored.(*regexp.Regexp), nil
}
