// Package validation holds the field rules shared by every form-facing
// handler. Each entity has exactly one rule table; callers never re-declare
// patterns or length bounds.
package validation

import (
	"fmt"
	"regexp"
	"unicode"
)

// Rule constrains a single string field
type Rule struct {
	Required bool
	MinLen   int
	MaxLen   int
	Pattern  *regexp.Regexp
	Message  string // shown when the pattern or custom check fails
	Custom   func(value string) error
}

// RuleSet maps field names to their rules
type RuleSet map[string]Rule

// Validate applies the rule set to the given field values and returns a map
// of field name to error message. An empty map means the input is valid.
// Fields absent from the rule set are ignored.
func (rs RuleSet) Validate(fields map[string]string) map[string]string {
	problems := make(map[string]string)
	for name, rule := range rs {
		value := fields[name]
		if value == "" {
			if rule.Required {
				problems[name] = "is required"
			}
			continue
		}
		if rule.MinLen > 0 && len(value) < rule.MinLen {
			problems[name] = fmt.Sprintf("must be at least %d characters", rule.MinLen)
			continue
		}
		if rule.MaxLen > 0 && len(value) > rule.MaxLen {
			problems[name] = fmt.Sprintf("must be at most %d characters", rule.MaxLen)
			continue
		}
		if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
			problems[name] = rule.Message
			continue
		}
		if rule.Custom != nil {
			if err := rule.Custom(value); err != nil {
				problems[name] = err.Error()
			}
		}
	}
	return problems
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	rutPattern   = regexp.MustCompile(`^[0-9]{7,8}-[0-9kK]$`)
	phonePattern = regexp.MustCompile(`^[0-9]{8,12}$`)
)

// passwordShape requires at least one letter and one digit
func passwordShape(value string) error {
	var hasLetter, hasDigit bool
	for _, r := range value {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("must contain at least one letter and one digit")
	}
	return nil
}

// ClientRules validates client registration and profile edits
var ClientRules = RuleSet{
	"name":     {Required: true, MinLen: 3, MaxLen: 50},
	"email":    {Required: true, MinLen: 5, MaxLen: 100, Pattern: emailPattern, Message: "is not a valid email"},
	"password": {Required: true, MinLen: 6, MaxLen: 20, Custom: passwordShape},
	"address":  {Required: true, MinLen: 5, MaxLen: 100},
	"phone":    {Pattern: phonePattern, Message: "must be 8 to 12 digits"},
}

// AdminRules validates administrator accounts; address is optional for admins
var AdminRules = RuleSet{
	"name":     {Required: true, MinLen: 3, MaxLen: 50},
	"email":    {Required: true, MinLen: 5, MaxLen: 100, Pattern: emailPattern, Message: "is not a valid email"},
	"password": {Required: true, MinLen: 6, MaxLen: 20, Custom: passwordShape},
	"phone":    {Pattern: phonePattern, Message: "must be 8 to 12 digits"},
}

// CompanyRules validates company registration and edits
var CompanyRules = RuleSet{
	"name":     {Required: true, MinLen: 3, MaxLen: 50},
	"rut":      {Required: true, Pattern: rutPattern, Message: "must match the format 12345678-5"},
	"email":    {Required: true, MinLen: 5, MaxLen: 100, Pattern: emailPattern, Message: "is not a valid email"},
	"password": {Required: true, MinLen: 6, MaxLen: 20, Custom: passwordShape},
	"address":  {Required: true, MinLen: 5, MaxLen: 100},
	"phone":    {Pattern: phonePattern, Message: "must be 8 to 12 digits"},
}

// ProductRules validates product creation and edits
var ProductRules = RuleSet{
	"name":        {Required: true, MinLen: 3, MaxLen: 100},
	"description": {MaxLen: 500},
}

// UpdateRules returns a copy of the rule set with the password made optional,
// for edit forms where a blank password means "keep the current one".
func UpdateRules(rs RuleSet) RuleSet {
	out := make(RuleSet, len(rs))
	for name, rule := range rs {
		if name == "password" {
			rule.Required = false
		}
		out[name] = rule
	}
	return out
}
