package sqlguard

import (
	"fmt"
	"strings"
	"unicode"
)

// readOnlyLeaders are the keywords a read-only statement may start with.
var readOnlyLeaders = map[string]bool{
	"SELECT":  true,
	"WITH":    true,
	"VALUES":  true,
	"TABLE":   true,
	"EXPLAIN": true,
	"SHOW":    true,
}

// mutatingKeywords flag a statement wherever they appear outside strings,
// quoted identifiers and comments. WITH ... DELETE and SELECT ... INTO are
// caught this way.
var mutatingKeywords = map[string]bool{
	"INSERT":   true,
	"UPDATE":   true,
	"DELETE":   true,
	"MERGE":    true,
	"UPSERT":   true,
	"CREATE":   true,
	"ALTER":    true,
	"DROP":     true,
	"TRUNCATE": true,
	"RENAME":   true,
	"GRANT":    true,
	"REVOKE":   true,
	"COPY":     true,
	"CALL":     true,
	"DO":       true,
	"INTO":     true,
	"VACUUM":   true,
	"REINDEX":  true,
	"CLUSTER":  true,
	"LOCK":     true,
	"REFRESH":  true,
	"COMMENT":  true,
}

// Verdict describes a classified query.
type Verdict struct {
	Leader     string
	Statements int
	Mutating   string
}

// ReadOnly reports whether the verdict allows execution.
func (v Verdict) ReadOnly() bool {
	return v.Statements == 1 && v.Mutating == "" && readOnlyLeaders[v.Leader]
}

// Inspect tokenizes query and classifies it. Input the tokenizer can not
// read unambiguously is an error, never a shorter token stream.
func Inspect(query string) (Verdict, error) {
	var v Verdict
	toks, err := tokenize(query)
	if err != nil {
		return v, err
	}
	inStatement := false
	for _, tok := range toks {
		if tok == ";" {
			inStatement = false
			continue
		}
		if !inStatement {
			inStatement = true
			v.Statements++
			if v.Statements == 1 {
				v.Leader = tok
			}
		}
		if v.Mutating == "" && mutatingKeywords[tok] {
			v.Mutating = tok
		}
	}
	return v, nil
}

// Check returns nil when query is a single read-only statement.
func Check(query string) error {
	v, err := Inspect(query)
	switch {
	case err != nil:
		return err
	case v.Statements == 0:
		return ErrEmptyStatement
	case v.Statements > 1:
		return ErrMultipleStatements
	case v.Mutating != "":
		return fmt.Errorf("%w: %s", ErrMutatingStatement, v.Mutating)
	case !readOnlyLeaders[v.Leader]:
		return fmt.Errorf("%w: %s", ErrUnsupportedStatement, v.Leader)
	}
	return nil
}

// Normalize strips markdown fences, surrounding whitespace and a trailing
// semicolon from a model produced query.
func Normalize(query string) string {
	q := strings.TrimSpace(query)
	if strings.HasPrefix(q, "```") {
		q = strings.TrimPrefix(q, "```")
		if nl := strings.IndexByte(q, '\n'); nl >= 0 && !strings.ContainsAny(q[:nl], " \t") {
			q = q[nl+1:]
		} else {
			q = strings.TrimPrefix(strings.TrimPrefix(q, "sql"), "SQL")
		}
		q = strings.TrimSuffix(strings.TrimSpace(q), "```")
	}
	q = strings.TrimSpace(q)
	return strings.TrimSpace(strings.TrimSuffix(q, ";"))
}

// tokenize returns upper-cased bare words and ";" separators. String literals,
// quoted identifiers, dollar-quoted bodies and comments are dropped.
func tokenize(query string) ([]string, error) {
	var out []string
	rs := []rune(query)
	n := len(rs)
	for i := 0; i < n; {
		r := rs[i]
		var err error
		switch {
		case r == ';':
			out = append(out, ";")
			i++
		case r == '-' && i+1 < n && rs[i+1] == '-':
			for i < n && rs[i] != '\n' {
				i++
			}
		case r == '/' && i+1 < n && rs[i+1] == '*':
			i, err = skipBlockComment(rs, i)
		case r == '\'':
			i, err = skipString(rs, i)
		case r == '"' || r == '`':
			i, err = skipQuoted(rs, i, r)
		case r == '$':
			i, err = skipDollar(rs, i)
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < n && (unicode.IsLetter(rs[i]) || unicode.IsDigit(rs[i]) || rs[i] == '_') {
				i++
			}
			word := strings.ToUpper(string(rs[start:i]))
			if word == "E" && i < n && rs[i] == '\'' {
				i, err = skipEscapeString(rs, i)
			} else {
				out = append(out, word)
			}
		default:
			i++
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// skipBlockComment advances past a block comment. Comments nest.
func skipBlockComment(rs []rune, i int) (int, error) {
	depth := 0
	for i+1 < len(rs) {
		switch {
		case rs[i] == '/' && rs[i+1] == '*':
			depth++
			i += 2
		case rs[i] == '*' && rs[i+1] == '/':
			depth--
			i += 2
			if depth == 0 {
				return i, nil
			}
		default:
			i++
		}
	}
	return len(rs), ErrUnterminated
}

// skipQuoted advances past a quoted run where a doubled quote is an escape.
func skipQuoted(rs []rune, i int, q rune) (int, error) {
	i++
	for i < len(rs) {
		if rs[i] == q {
			if i+1 < len(rs) && rs[i+1] == q {
				i += 2
				continue
			}
			return i + 1, nil
		}
		i++
	}
	return i, ErrUnterminated
}

// skipString advances past a standard string. A backslash right before a
// quote is rejected: with standard_conforming_strings off it escapes.
func skipString(rs []rune, i int) (int, error) {
	i++
	for i < len(rs) {
		switch {
		case rs[i] == '\\' && i+1 < len(rs) && rs[i+1] == '\'':
			return i, ErrAmbiguousLiteral
		case rs[i] == '\'':
			if i+1 < len(rs) && rs[i+1] == '\'' {
				i += 2
				continue
			}
			return i + 1, nil
		default:
			i++
		}
	}
	return len(rs), ErrUnterminated
}

// skipEscapeString advances past the body of an E'...' string, where a
// backslash escapes the next character and a doubled quote is a quote.
func skipEscapeString(rs []rune, i int) (int, error) {
	i++
	for i < len(rs) {
		switch {
		case rs[i] == '\\':
			i += 2
		case rs[i] == '\'':
			if i+1 < len(rs) && rs[i+1] == '\'' {
				i += 2
				continue
			}
			return i + 1, nil
		default:
			i++
		}
	}
	return len(rs), ErrUnterminated
}

// skipDollar advances past $tag$ ... $tag$ bodies. A lone $ or positional
// parameter like $1 is consumed as punctuation.
func skipDollar(rs []rune, i int) (int, error) {
	j := i + 1
	for j < len(rs) && (unicode.IsLetter(rs[j]) || rs[j] == '_') {
		j++
	}
	if j >= len(rs) || rs[j] != '$' {
		return i + 1, nil
	}
	tag := string(rs[i : j+1])
	body := string(rs[j+1:])
	end := strings.Index(body, tag)
	if end < 0 {
		return len(rs), ErrUnterminated
	}
	return j + 1 + len([]rune(body[:end])) + len([]rune(tag)), nil
}
