package scanner

import "strings"

// exclusionVocabulary lists terms that disqualify a field outright. Exclusion
// always wins over inclusion: search boxes, captchas, credentials and
// security-sensitive payment fields are never treated as personal-data
// candidates.
var exclusionVocabulary = []string{
	"search",
	"query",
	"filter",
	"captcha",
	"password",
	"passwd",
	"cvv",
	"cvc",
	"security code",
	"security question",
	"security answer",
	"ssn",
	"social security",
	"otp",
	"one-time",
	"one time code",
	"2fa",
	"two-factor",
	"verification code",
	// "pin" alone would substring-match "shipping"; keep the longer forms.
	"pin code",
	"pincode",
	"pin number",
	"coupon",
	"promo code",
	"gift card",
}

// personalVocabulary lists terms whose presence in the combined signal text
// marks a field as a personal-data candidate.
var personalVocabulary = []string{
	"email",
	"e-mail",
	"phone",
	"mobile",
	"telephone",
	"name",
	"address",
	"street",
	"city",
	"state",
	"province",
	"zip",
	"postal",
	"country",
	"company",
	"organization",
	"birthday",
	"birth date",
	"dob",
	"billing",
	"shipping",
	"contact",
	"username",
}

// autocompleteAllowlist is the set of autocomplete hints that qualify a field
// on their own.
var autocompleteAllowlist = map[string]struct{}{
	"email":           {},
	"tel":             {},
	"tel-national":    {},
	"name":            {},
	"given-name":      {},
	"additional-name": {},
	"family-name":     {},
	"nickname":        {},
	"username":        {},
	"organization":    {},
	"street-address":  {},
	"address-line1":   {},
	"address-line2":   {},
	"address-level1":  {},
	"address-level2":  {},
	"postal-code":     {},
	"country":         {},
	"country-name":    {},
	"cc-number":       {},
	"bday":            {},
	"url":             {},
}

// formContextInclude marks enclosing-form class/id text that suggests a
// personal-data form; formContextExclude overrides it.
var (
	formContextInclude = []string{"signup", "sign-up", "register", "registration", "checkout", "profile", "contact", "account", "billing", "shipping"}
	formContextExclude = []string{"search", "filter"}
)

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
