package service

import (
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fintrack/fintrack/internal/model"
)

// Validation limits.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MaxEmailLength    = 254
	MinPasswordLength = 6
	MaxPasswordLength = 128
	MaxFullNameLength = 100

	MaxTitleLength       = 100
	MaxCategoryLength    = 50
	MaxDescriptionLength = 500

	// MaxAmount keeps per-user totals well inside int64.
	MaxAmount = math.MaxInt32
)

// Allowed: a-z, A-Z, 0-9, underscore, dot, hyphen
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func validateSignup(in SignupInput) error {
	n := utf8.RuneCountInString(in.Username)
	if n < MinUsernameLength || n > MaxUsernameLength {
		return invalid("username", "must be 3-50 characters")
	}
	if !usernamePattern.MatchString(in.Username) {
		return invalid("username", "may only contain letters, digits, '_', '.' and '-'")
	}

	if err := validateEmail(in.Email); err != nil {
		return err
	}

	n = utf8.RuneCountInString(in.Password)
	if n < MinPasswordLength || n > MaxPasswordLength {
		return invalid("password", "must be 6-128 characters")
	}

	if utf8.RuneCountInString(in.FullName) > MaxFullNameLength {
		return invalid("full_name", "must be at most 100 characters")
	}

	return nil
}

func validateEmail(email string) error {
	if email == "" || len(email) > MaxEmailLength {
		return invalid("email", "must be 1-254 characters")
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return invalid("email", "must be a valid address")
	}
	if strings.ContainsAny(email, " \t\r\n") {
		return invalid("email", "must not contain whitespace")
	}
	return nil
}

// recordFields is a validated RecordInput.
type recordFields struct {
	title       string
	description string
	category    string
	date        time.Time
	amount      int64
}

func validateRecord(in RecordInput) (recordFields, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return recordFields{}, invalid("title", "is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return recordFields{}, invalid("title", "must be at most 100 characters")
	}

	if in.Amount <= 0 {
		return recordFields{}, invalid("amount", "must be a positive number")
	}
	if in.Amount > MaxAmount {
		return recordFields{}, invalid("amount", "must be at most 2147483647")
	}

	if in.Date == "" {
		return recordFields{}, invalid("date", "is required")
	}
	date, err := time.Parse(model.DateLayout, in.Date)
	if err != nil {
		return recordFields{}, invalid("date", "must be formatted as YYYY-MM-DD")
	}

	category := strings.TrimSpace(in.Category)
	if utf8.RuneCountInString(category) > MaxCategoryLength {
		return recordFields{}, invalid("category", "must be at most 50 characters")
	}

	if utf8.RuneCountInString(in.Description) > MaxDescriptionLength {
		return recordFields{}, invalid("description", "must be at most 500 characters")
	}

	return recordFields{
		title:       title,
		description: in.Description,
		category:    category,
		date:        model.TruncateDate(date),
		amount:      in.Amount,
	}, nil
}
