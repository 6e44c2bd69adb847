package rules

// defaultRules is the process-start rule set. Priorities are heuristic
// weights; a higher priority means one pattern hit counts for more in the
// best-rule vote.
var defaultRules = []Rule{
	{
		FieldType:     "email",
		Patterns:      []string{"email", "e-mail", "mail", `re:e[-_]?mail`},
		BackingFields: []string{"email", "email_address", "work_email", "personal_email"},
		Priority:      5,
	},
	{
		FieldType:     "phone",
		Patterns:      []string{"phone", "mobile", "tel", "cell", `re:(tele)?phone`},
		BackingFields: []string{"phone", "phone_number", "mobile", "mobile_number"},
		Priority:      5,
	},
	{
		FieldType:     "first_name",
		Patterns:      []string{"first name", "firstname", "given name", `re:first[-_ ]?name`, `re:given[-_ ]?name`},
		BackingFields: []string{"first_name", "given_name"},
		Priority:      4,
	},
	{
		FieldType:     "last_name",
		Patterns:      []string{"last name", "lastname", "surname", "family name", `re:(last|family)[-_ ]?name`},
		BackingFields: []string{"last_name", "family_name", "surname"},
		Priority:      4,
	},
	{
		FieldType:     "name",
		Patterns:      []string{"full name", "fullname", "name", `re:\bname\b`},
		BackingFields: []string{"name", "full_name"},
		Priority:      3,
	},
	{
		FieldType:     "address",
		Patterns:      []string{"address", "street", "billing", "shipping", `re:address[-_ ]?(line)?[12]?`},
		BackingFields: []string{"address", "street_address", "address_line1", "address_line2"},
		Priority:      4,
	},
	{
		FieldType:     "city",
		Patterns:      []string{"city", "town", "locality"},
		BackingFields: []string{"city", "town", "locality"},
		Priority:      4,
	},
	{
		FieldType:     "state",
		Patterns:      []string{"state", "province", "region"},
		BackingFields: []string{"state", "province", "region"},
		Priority:      3,
	},
	{
		FieldType:     "postal_code",
		Patterns:      []string{"zip", "postal", "postcode", `re:(zip|postal)[-_ ]?code`},
		BackingFields: []string{"postal_code", "zip", "zip_code"},
		Priority:      5,
	},
	{
		FieldType:     "country",
		Patterns:      []string{"country", "nation"},
		BackingFields: []string{"country", "country_code"},
		Priority:      4,
	},
	{
		FieldType:     "company",
		Patterns:      []string{"company", "organization", "organisation", "employer"},
		BackingFields: []string{"company", "organization", "employer"},
		Priority:      4,
	},
	{
		FieldType:     "website",
		Patterns:      []string{"website", "homepage", "site", `re:\burl\b`},
		BackingFields: []string{"website", "url", "homepage"},
		Priority:      3,
	},
	{
		FieldType:     "birthday",
		Patterns:      []string{"birthday", "birth date", "birthdate", "dob", `re:(date[-_ ]?of[-_ ]?birth|b(irth)?day)`},
		BackingFields: []string{"birthday", "birth_date", "date_of_birth"},
		Priority:      4,
	},
	{
		FieldType:     "username",
		Patterns:      []string{"username", "user name", "nickname", "handle", `re:user[-_ ]?name`},
		BackingFields: []string{"username", "handle", "nickname"},
		Priority:      3,
	},
}

// DefaultTable returns the built-in rule table. It panics only on programmer
// error (an invalid built-in rule), never at runtime on user input.
func DefaultTable() *Table {
	t, err := NewTable(defaultRules)
	if err != nil {
		panic(err)
	}
	return t
}
