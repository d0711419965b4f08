package model

import "strings"

// JargonTerm pairs a legal term with its plain-English definition.
type JargonTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// JargonTerms returns the built-in glossary of legal jargon, in stable
// alphabetical order.
func JargonTerms() []JargonTerm {
	return []JargonTerm{
		{"arbitration", "A method of resolving disputes outside of court. A neutral third party (the arbitrator) makes a decision that is usually legally binding, meaning you waive your right to sue."},
		{"breach", "A violation or failure to perform a duty or obligation in a contract without a legal excuse."},
		{"collateral", "Property or assets that a borrower offers to a lender to secure a loan. If the borrower stops making payments, the lender can seize the collateral."},
		{"deductible", "The amount of money you must pay out-of-pocket for a covered loss before your insurance company starts to pay."},
		{"default", "The failure to fulfill an obligation, especially to repay a loan."},
		{"exclusion", "A provision in an insurance policy that eliminates coverage for certain risks, people, property, or locations."},
		{"indemnify", "To guarantee against any loss or damage. If you indemnify someone, you agree to pay for any costs or losses they suffer."},
		{"jurisdiction", "The territory or area (e.g., a state or country) where legal action can be brought. This determines which court will hear a case."},
		{"liability", "Legal responsibility for one's acts or omissions. A 'limitation of liability' clause tries to cap the amount of money one party has to pay if something goes wrong."},
		{"premium", "The amount of money an individual or business pays for an insurance policy."},
		{"termination", "The act of ending a contract or agreement before its natural end."},
		{"waiver", "The act of intentionally giving up a known right, claim, or privilege. If you waive a right, you can't enforce it later."},
	}
}

// LookupJargon finds a glossary entry by case-insensitive term match.
func LookupJargon(term string) (JargonTerm, bool) {
	want := strings.ToLower(strings.TrimSpace(term))
	for _, jt := range JargonTerms() {
		if strings.ToLower(jt.Term) == want {
			return jt, true
		}
	}
	return JargonTerm{}, false
}
