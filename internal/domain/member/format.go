package member

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	hangulName  = regexp.MustCompile(`^[가-힣]{2,10}$`)
	latinName   = regexp.MustCompile(`^[a-zA-Z\s]{2,20}$`)
	mobilePhone = regexp.MustCompile(`^010-\d{4}-\d{4}$|^010\d{8}$`)
	nonDigit    = regexp.MustCompile(`\D`)
)

const maskRune = "○"

// MaskName hides the middle of a name: "홍길동" -> "홍○동", "이수" -> "이○".
func MaskName(name string) string {
	runes := []rune(strings.TrimSpace(name))
	switch {
	case len(runes) == 0:
		return ""
	case len(runes) == 1:
		return string(runes)
	case len(runes) == 2:
		return string(runes[0]) + maskRune
	default:
		return string(runes[0]) + maskRune + string(runes[len(runes)-1])
	}
}

// MaskPhone renders "01012345678" as "010-****-5678".
// Inputs shorter than 7 digits are fully masked.
func MaskPhone(phone string) string {
	digits := Digits(phone)
	if len(digits) < 7 {
		return strings.Repeat("*", len(digits))
	}
	return digits[:3] + "-****-" + digits[len(digits)-4:]
}

// Digits strips every non-digit from s.
func Digits(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

// FormatPhone formats up to 11 digits as 3-4-4 while typing.
// PRE: none
// POST: returns at most 13 characters; extra digits are dropped
func FormatPhone(s string) string {
	d := Digits(s)
	if len(d) > 11 {
		d = d[:11]
	}
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 7:
		return d[:3] + "-" + d[3:]
	default:
		return d[:3] + "-" + d[3:7] + "-" + d[7:]
	}
}

// ValidateName checks a trimmed name against the Hangul and Latin patterns.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	if !hangulName.MatchString(name) && !latinName.MatchString(name) {
		return ErrNameFormat
	}
	return nil
}

// ValidatePhone checks an 11-digit mobile number, hyphens optional.
func ValidatePhone(phone string) error {
	phone = strings.Join(strings.Fields(phone), "")
	if phone == "" {
		return ErrPhoneRequired
	}
	if !mobilePhone.MatchString(phone) {
		return ErrPhoneFormat
	}
	return nil
}

// LastFour returns the last four digits of a phone number, or "" when shorter.
func LastFour(phone string) string {
	d := Digits(phone)
	if utf8.RuneCountInString(d) < 4 {
		return ""
	}
	return d[len(d)-4:]
}
