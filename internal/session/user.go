package session

import "strings"

// Profile is the semi-structured financial document attached to a user. The
// session core stores and forwards it without interpreting its contents;
// the view layer decodes the keys it understands.
type Profile map[string]any

// Known profile keys. These are documentation for view implementations, not
// a schema the core enforces.
const (
	ProfileSalary          = "salary"
	ProfileSavings         = "savings"
	ProfileExpenditure     = "expenditure"
	ProfileSavingsAccounts = "savings_accounts"
	ProfileCurrentAccounts = "current_accounts"
	ProfileFixedDeposits   = "fds"
	ProfileProvidentFund   = "pf"
	ProfileLoans           = "loans"
	ProfileAssets          = "assets"
	ProfileInvestments     = "investments"
	ProfileJobDetails      = "job_details"
)

// PlaceholderUserID marks a user record built from a backend response that
// carried no authoritative id.
const PlaceholderUserID int64 = -1

// User is the identity record of an authenticated client.
type User struct {
	ID      int64
	Email   string
	Name    string
	Profile Profile
}

// DefaultProfile returns the empty profile used when the backend omits one.
func DefaultProfile() Profile {
	return Profile{
		ProfileSalary:      float64(0),
		ProfileSavings:     []any{},
		ProfileExpenditure: []any{},
	}
}

// DisplayName derives the display name from an email address: the local part
// before the @.
func DisplayName(email string) string {
	if at := strings.IndexByte(email, '@'); at >= 0 {
		return email[:at]
	}
	return email
}
