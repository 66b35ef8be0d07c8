package password

import (
	"strings"
	"unicode"
)

const minLength = 8

// ValidateStrength checks a candidate password against the registration
// policy and returns every violated rule.
func ValidateStrength(password string) []string {
	var problems []string

	if len(password) < minLength {
		problems = append(problems, "password must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		problems = append(problems, "password must contain an uppercase letter")
	}
	if !hasLower {
		problems = append(problems, "password must contain a lowercase letter")
	}
	if !hasDigit {
		problems = append(problems, "password must contain a digit")
	}

	if isCommon(password) {
		problems = append(problems, "password is too common")
	}

	return problems
}

var commonPasswords = map[string]struct{}{
	"password":  {},
	"password1": {},
	"12345678":  {},
	"123456789": {},
	"qwerty123": {},
	"letmein1":  {},
	"admin123":  {},
}

func isCommon(password string) bool {
	_, ok := commonPasswords[strings.ToLower(password)]
	return ok
}
