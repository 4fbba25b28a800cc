package validator

import (
	"net/mail"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

// Message flattens the field errors into one deterministic string.
func (v ValidationErrors) Message() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(v))
	for _, field := range fields {
		parts = append(parts, field+": "+v[field])
	}
	return strings.Join(parts, "; ")
}

var userNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

var regions = map[string]bool{
	"Asia":    true,
	"America": true,
	"Oceania": true,
	"Africa":  true,
	"Europe":  true,
}

func ValidateRegister(userName, email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	userName = strings.TrimSpace(userName)
	if userName == "" {
		errs.Add("userName", "User name is required")
	} else if len(userName) > 50 {
		errs.Add("userName", "User name is too long")
	} else if !userNameRegex.MatchString(userName) {
		errs.Add("userName", "User name can only contain letters, numbers, _ and -")
	}

	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}

	if password == "" {
		errs.Add("password", "Password is required")
	} else if len(password) < 8 {
		errs.Add("password", "Password must be at least 8 characters")
	}

	return errs
}

func ValidateSightingForm(title, year, region string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(title) == "" {
		errs.Add("title", "Title is required")
	}

	if year == "" {
		errs.Add("year", "Year is required")
	} else if y, err := strconv.Atoi(year); err != nil || y < 0 {
		errs.Add("year", "Year must be a number")
	}

	if region == "" {
		errs.Add("region", "Region is required")
	} else if !regions[region] {
		errs.Add("region", "Region must be one of Asia, America, Oceania, Africa, Europe")
	}

	return errs
}
