package arff

import (
	"fmt"
	"strings"
	"unicode"
)

type token struct {
	text   string
	quoted bool
}

// splitKeyword returns the first whitespace-delimited word of s and the rest.
func splitKeyword(s string) (string, string) {
	s = strings.TrimSpace(s)
	idx := strings.IndexFunc(s, unicode.IsSpace)
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimSpace(s[idx:])
}

// readName reads a possibly quoted identifier from the start of s.
func readName(s string) (string, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", fmt.Errorf("empty name")
	}
	if q := s[0]; q == '\'' || q == '"' {
		end := closingQuote(s, q)
		if end < 0 {
			return "", "", fmt.Errorf("unterminated quoted name")
		}
		return unescape(s[1:end]), s[end+1:], nil
	}
	end := strings.IndexFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == '{' })
	if end < 0 {
		return s, "", nil
	}
	return s[:end], s[end:], nil
}

// splitValues splits a comma-separated list, honouring quotes.
func splitValues(s string) ([]token, error) {
	raw, err := splitRaw(s)
	if err != nil {
		return nil, err
	}
	tokens := make([]token, 0, len(raw))
	for _, r := range raw {
		tok, err := unquote(strings.TrimSpace(r))
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// splitRaw splits s on commas that are not inside quotes. Quotes are kept.
func splitRaw(s string) ([]string, error) {
	var (
		parts []string
		start int
		quote byte
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0 && c == '\\':
			i++
		case quote != 0 && c == quote:
			quote = 0
		case quote == 0 && (c == '\'' || c == '"'):
			quote = c
		case quote == 0 && c == ',':
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote in %q", truncate(s))
	}
	return append(parts, s[start:]), nil
}

func unquote(s string) (token, error) {
	if s == "" {
		return token{}, nil
	}
	q := s[0]
	if q != '\'' && q != '"' {
		return token{text: s}, nil
	}
	end := closingQuote(s, q)
	if end != len(s)-1 {
		return token{}, fmt.Errorf("malformed quoted value %q", truncate(s))
	}
	return token{text: unescape(s[1:end]), quoted: true}, nil
}

// closingQuote returns the index of the quote closing s[0], or -1.
func closingQuote(s string, q byte) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case q:
			return i
		}
	}
	return -1
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
