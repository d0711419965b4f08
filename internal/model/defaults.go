package model

// Built-in tagging and scoring tables. Callers get fresh copies so a loaded
// config can be mutated without corrupting the defaults.

// DefaultKeywords returns the built-in category-to-keyword table. Entries
// are matched as case-insensitive substrings, so stems like "terminat" catch
// "terminate", "terminated", and "termination" alike.
func DefaultKeywords() map[string][]string {
	return map[string][]string{
		"Data Collection": {
			"collect", "personal data", "information we collect", "analytic", "cookie",
		},
		"Data Sharing": {
			"share", "third party", "affiliate", "advertis", "partner",
		},
		"User Rights": {
			"access", "rectify", "delete", "opt-out", "withdraw consent",
		},
		"Restrictions": {
			"not permit", "prohibit", "you agree not to", "misuse", "reverse engineer",
		},
		"Termination": {
			"terminat", "suspend", "violation", "breach",
		},
		"Refunds & Billing": {
			"refund", "charge", "billing", "payment", "subscription", "auto-renewal", "hidden fee",
		},
		"Dispute Resolution": {
			"arbitrat", "class action", "waive", "governing law", "venue",
		},
		"Liability & Warranty": {
			"warrant", "liab", "indemnify", "disclaim", "limit",
		},
		"User Content Ownership": {
			"your content", "ownership", "grant license", "intellectual property", "upload",
		},
		"Third-party Integration": {
			"third-party", "integrate", "plugin", "external service",
		},
		"Security & Breach Responsibility": {
			"data breach", "unauthorized access", "security", "encrypt",
		},
	}
}

// DefaultRiskScores returns the built-in trigger weight table.
func DefaultRiskScores() map[string]int {
	return map[string]int{
		"sell data":           5,
		"arbitrat":            3,
		"class action":        3,
		"waive":               2,
		"indemnify":           3,
		"no refund":           3,
		"limit":               2,
		"share":               1,
		"hidden fee":          3,
		"auto-renew":          3,
		"unauthorized access": 4,
		"data breach":         4,
		"monitor":             3,
		"suspend":             3,
	}
}

// DefaultCategorySet names the preset used when no explicit category list is
// configured.
const DefaultCategorySet = "Software ToS"

// CategorySets returns the built-in named category presets.
func CategorySets() map[string][]string {
	return map[string][]string{
		"Software ToS": {
			"Data Collection",
			"Data Sharing",
			"User Rights",
			"Restrictions",
			"Termination",
			"Refunds & Billing",
			"Dispute Resolution",
			"Liability & Warranty",
		},
	}
}

// DefaultCategories returns the declared category order of the default
// preset.
func DefaultCategories() []string {
	return CategorySets()[DefaultCategorySet]
}
