package domain

// Messages is the fixed message set shown for failing fields.
var Messages = map[Field]string{
	FieldFirstName:       "First name must be at least 2 characters.",
	FieldLastName:        "Last name must be at least 2 characters.",
	FieldEmail:           "Enter a valid email address.",
	FieldPassword:        "Password must be at least 8 characters and contain 2 digits and 3 special characters.",
	FieldConfirmPassword: "Passwords must match.",
	FieldAge:             "Age must be a number between 18 and 99.",
	FieldBirthDate:       "Birth date must match the given age.",
	FieldCountry:         "You must choose a country.",
	FieldTermsConsent:    "You must accept the terms.",
}

const (
	// MinAge and MaxAge bound the accepted age, inclusive.
	MinAge = 18
	MaxAge = 99

	// MinNameLength applies to first and last name.
	MinNameLength = 2

	// MinPasswordLength counts characters, not bytes.
	MinPasswordLength = 8
	// MinPasswordDigits is the number of digits required anywhere in the password.
	MinPasswordDigits = 2
	// PasswordSpecialRun is the length of the consecutive run of special
	// characters a password must contain.
	PasswordSpecialRun = 3
	// PasswordSpecials is the set of characters that count towards the run.
	PasswordSpecials = "!@#$%^&*"
)
