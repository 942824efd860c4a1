package validator

import (
	"fmt"
	"net/mail"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"
)

func rule(field, msg string, check func() bool) Rule {
	return Rule{Check: check, Error: ValidationError{Field: field, Message: msg}}
}

// Required fails on empty or whitespace-only strings.
func Required(field, value string) Rule {
	return rule(field, "field is required", func() bool {
		return strings.TrimSpace(value) != ""
	})
}

// MaxLen counts characters, not bytes.
func MaxLen(field, value string, n int) Rule {
	return rule(field, fmt.Sprintf("must be at most %d characters long", n), func() bool {
		return utf8.RuneCountInString(value) <= n
	})
}

// MinLen counts characters, not bytes.
func MinLen(field, value string, n int) Rule {
	return rule(field, fmt.Sprintf("must be at least %d characters long", n), func() bool {
		return utf8.RuneCountInString(value) >= n
	})
}

// ByteLenBetween bounds the encoded size, e.g. for bcrypt inputs.
func ByteLenBetween(field, value string, minBytes, maxBytes int) Rule {
	return rule(field, fmt.Sprintf("must be between %d and %d bytes long", minBytes, maxBytes), func() bool {
		return len(value) >= minBytes && len(value) <= maxBytes
	})
}

// ValidEmail accepts a bare address with a dotted domain.
func ValidEmail(field, value string) Rule {
	return rule(field, "must be a valid email address", func() bool {
		addr, err := mail.ParseAddress(value)
		if err != nil || addr.Address != strings.TrimSpace(value) {
			return false
		}
		local, domain, ok := strings.Cut(addr.Address, "@")
		if !ok || local == "" {
			return false
		}
		if !strings.Contains(domain, ".") {
			return false
		}
		for part := range strings.SplitSeq(domain, ".") {
			if part == "" {
				return false
			}
		}
		return true
	})
}

// ValidURL requires an absolute URL with a host and one of schemes.
func ValidURL(field, value string, schemes ...string) Rule {
	if len(schemes) == 0 {
		schemes = []string{"http", "https"}
	}
	return rule(field, "must be a valid "+strings.Join(schemes, " or ")+" URL", func() bool {
		u, err := url.Parse(value)
		if err != nil || u.Host == "" {
			return false
		}
		return slices.Contains(schemes, strings.ToLower(u.Scheme))
	})
}

// Each applies fn to every element and reports the first failure as field[i].
func Each(field string, values []string, fn func(field, value string) Rule) Rule {
	for i, v := range values {
		r := fn(fmt.Sprintf("%s[%d]", field, i), v)
		if !r.Check() {
			return Rule{Check: func() bool { return false }, Error: r.Error}
		}
	}
	return Rule{Check: func() bool { return true }}
}

// MaxBytes bounds a size such as an uploaded file.
func MaxBytes(field string, size, limit int64) Rule {
	return rule(field, fmt.Sprintf("must not exceed %d bytes", limit), func() bool {
		return size <= limit
	})
}

// HasPrefix checks value against any of prefixes, e.g. "image/" for content types.
func HasPrefix(field, value string, prefixes ...string) Rule {
	return rule(field, "must start with "+strings.Join(prefixes, " or "), func() bool {
		for _, p := range prefixes {
			if strings.HasPrefix(value, p) {
				return true
			}
		}
		return false
	})
}

// Matches fails unless value equals other, e.g. a password confirmation.
func Matches(field, value, otherField, other string) Rule {
	return rule(field, "must match "+otherField, func() bool {
		return value == other
	})
}

// When applies r only if cond holds.
func When(cond bool, r Rule) Rule {
	return Rule{
		Check: func() bool { return !cond || r.Check() },
		Error: r.Error,
	}
}
