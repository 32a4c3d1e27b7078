package webscraper

import "strings"

// Delimiters used by the label-anchored extractors.
const (
	DelimNewline = "\n"
	DelimComma   = ","
)

// ExtractValue returns the text between the first occurrence of label and
// the first occurrence of delim found after it, trimmed of surrounding
// whitespace. The delimiter search skips the character immediately following
// the label, so a newline that ends the label's own line is not mistaken
// for the end of the value.
//
// Runs of newlines in text are collapsed to one before searching, which
// hides the blank lines PDF text reconstruction tends to insert between
// cells. A copy of the label left at the front of the value is dropped.
//
// An absent label yields an absent Value and a nil error. A label that is
// found but not followed by delim yields an EMALFORMED error.
func ExtractValue(text, label, delim string) (Value, error) {
	if label == "" || delim == "" {
		return Value{}, Errorf(EINVALID, "label and delimiter required")
	}

	text = collapseNewlines(text)

	i := strings.Index(text, label)
	if i < 0 {
		return Value{}, nil
	}
	start := i + len(label)

	end := indexFrom(text, delim, start+1)
	if end < 0 {
		return Value{}, Errorf(EMALFORMED, "no %q after label %q", delim, label)
	}

	v := strings.TrimSpace(text[start:end])
	v = strings.TrimPrefix(v, label)
	return Found(strings.TrimSpace(v)), nil
}

// ExtractTag returns the raw value of a `"name": value,` fragment embedded in
// text that is not valid JSON as a whole. The value is returned verbatim,
// including any quotes, with only surrounding whitespace trimmed.
func ExtractTag(text, name string) (Value, error) {
	if name == "" {
		return Value{}, Errorf(EINVALID, "tag name required")
	}

	key := `"` + name + `":`
	i := strings.Index(text, key)
	if i < 0 {
		return Value{}, nil
	}
	start := i + len(key)

	end := indexFrom(text, DelimComma, start)
	if end < 0 {
		return Value{}, Errorf(EMALFORMED, "no %q after tag %q", DelimComma, name)
	}

	return Found(strings.TrimSpace(text[start:end])), nil
}

// ExtractVariable returns the value assigned in a `name = "value";` statement
// found in inline script text. Every double quote in the assigned span is
// removed, not only the enclosing pair.
func ExtractVariable(text, name string) (Value, error) {
	if name == "" {
		return Value{}, Errorf(EINVALID, "variable name required")
	}

	i := strings.Index(text, name)
	if i < 0 {
		return Value{}, nil
	}

	eq := indexFrom(text, "=", i+len(name))
	if eq < 0 {
		return Value{}, Errorf(EMALFORMED, "no assignment after variable %q", name)
	}

	semi := indexFrom(text, ";", eq+1)
	if semi < 0 {
		return Value{}, Errorf(EMALFORMED, "unterminated assignment to variable %q", name)
	}

	v := strings.ReplaceAll(text[eq+1:semi], `"`, "")
	return Found(strings.TrimSpace(v)), nil
}

// FindElement scans text from start for occurrences of element and returns
// the text between the first occurrence whose content contains mustContain
// and the next '<'. Occurrences whose content does not match are skipped.
// An empty mustContain matches the first occurrence.
//
// The scan is iterative, so documents with many non-matching occurrences do
// not grow the stack.
func FindElement(text, element string, start int, mustContain string) (Value, error) {
	if element == "" {
		return Value{}, Errorf(EINVALID, "element required")
	}
	if start < 0 {
		start = 0
	}

	for {
		i := indexFrom(text, element, start)
		if i < 0 {
			return Value{}, nil
		}
		contentStart := i + len(element)

		end := indexFrom(text, "<", contentStart)
		if end < 0 {
			return Value{}, Errorf(EMALFORMED, "element %q at offset %d is never closed", element, i)
		}

		if content := text[contentStart:end]; strings.Contains(content, mustContain) {
			return Found(strings.TrimSpace(content)), nil
		}
		start = end
	}
}

// FirstToken returns the first whitespace-delimited token of v. A found value
// with no tokens yields a found empty value; an absent value stays absent.
func FirstToken(v Value) Value {
	s, ok := v.Get()
	if !ok {
		return Value{}
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Found("")
	}
	return Found(fields[0])
}

// indexFrom returns the index of the first instance of substr in s at or
// after offset from, or -1 if there is none.
func indexFrom(s, substr string, from int) int {
	if from > len(s) {
		return -1
	}
	i := strings.Index(s[from:], substr)
	if i < 0 {
		return -1
	}
	return from + i
}

// collapseNewlines replaces every run of newlines with a single one.
func collapseNewlines(s string) string {
	for strings.Contains(s, "\n\n") {
		s = strings.ReplaceAll(s, "\n\n", "\n")
	}
	return s
}
