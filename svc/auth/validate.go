package auth

import "github.com/dmitrymomot/soda/pkg/validator"

const (
	maxNameLen     = 255
	minPasswordLen = 8
	// bcrypt ignores input past 72 bytes.
	maxPasswordLen = 72
)

func nameRules(field, value string) []validator.Rule {
	return []validator.Rule{
		validator.Required(field, value),
		validator.MaxLen(field, value, maxNameLen),
	}
}

func emailRules(field, value string) []validator.Rule {
	return []validator.Rule{
		validator.Required(field, value),
		validator.ValidEmail(field, value),
	}
}

func passwordRule(field, value string) validator.Rule {
	return validator.ByteLenBetween(field, value, minPasswordLen, maxPasswordLen)
}

func validate(groups ...[]validator.Rule) error {
	var rules []validator.Rule
	for _, g := range groups {
		rules = append(rules, g...)
	}
	return validator.Apply(rules...)
}
