package fincoach

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Document is a schemaless JSON object passed through to or from the backend.
type Document = map[string]any

// Amount decodes backend numeric fields that arrive either as JSON numbers
// or as quoted strings (form-entered values are stored verbatim).
type Amount float64

// UnmarshalJSON accepts both `123.4` and `"123.4"`; empty strings decode to zero.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*a = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*a = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("fincoach: amount %q: %w", s, err)
		}
		*a = Amount(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = Amount(v)
	return nil
}

// LoginResponse is the body returned by POST /login.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	Email       string   `json:"email"`
	UserID      int64    `json:"user_id"`
	Profile     Document `json:"profile"`
}

// SignupRequest carries the full registration payload: credentials plus the
// financial profile collected by the signup form. Row collections stay
// schemaless; the backend owns their interpretation.
type SignupRequest struct {
	Email           string     `json:"email"`
	Password        string     `json:"password"`
	Salary          float64    `json:"salary"`
	Savings         []float64  `json:"savings"`
	Expenditure     []float64  `json:"expenditure"`
	SavingsAccounts []Document `json:"savings_accounts"`
	CurrentAccounts []Document `json:"current_accounts"`
	FixedDeposits   float64    `json:"fds"`
	ProvidentFund   float64    `json:"pf"`
	Loans           []Document `json:"loans"`
	Assets          []Document `json:"assets"`
	Investments     []Document `json:"investments"`
	JobDetails      Document   `json:"job_details"`
}

// Account is a savings or current account row.
type Account struct {
	BankName string `json:"bank_name"`
	Balance  Amount `json:"balance"`
}

// Investment is a single holding row.
type Investment struct {
	Stock    string `json:"stock"`
	Quantity Amount `json:"quantity"`
	Value    Amount `json:"value"`
}

// Loan is an outstanding loan row.
type Loan struct {
	Type   string `json:"type"`
	Amount Amount `json:"amount"`
	EMI    Amount `json:"emi"`
}

// Asset is a recorded asset row.
type Asset struct {
	Type  string `json:"type"`
	Value Amount `json:"value"`
}

// JobDetails describes the user's employment record.
type JobDetails struct {
	Company         string `json:"company"`
	Designation     string `json:"designation"`
	Salary          Amount `json:"salary"`
	YearsExperience Amount `json:"years_experience"`
}

// Badge is an earned quest badge.
type Badge struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	EarnedDate  string `json:"earned_date"`
}

// QuestWallet aggregates a user's quest points and badges.
type QuestWallet struct {
	Points int     `json:"points"`
	Badges []Badge `json:"badges"`
}

// UserDocument is the full user record returned by POST /home.
type UserDocument struct {
	Email           string       `json:"email"`
	Job             JobDetails   `json:"job"`
	Savings         []float64    `json:"savings"`
	Expenditure     []float64    `json:"expenditure"`
	SavingsAccounts []Account    `json:"savings_accounts"`
	CurrentAccounts []Account    `json:"current_accounts"`
	FixedDeposits   Amount       `json:"fds"`
	ProvidentFund   Amount       `json:"pf"`
	Investments     []Investment `json:"investments"`
	Loans           []Loan       `json:"loans"`
	Assets          []Asset      `json:"assets"`
	Quests          QuestWallet  `json:"quests"`
}

// TrackerEntry is one month's savings/expenditure pair.
type TrackerEntry struct {
	Month       string  `json:"month"`
	Year        int     `json:"year"`
	Savings     float64 `json:"savings"`
	Expenditure float64 `json:"expenditure"`
}

// TrackerUpdateResponse acknowledges a tracker submission.
type TrackerUpdateResponse struct {
	Message     string `json:"message"`
	UpdatedData struct {
		Savings     []float64 `json:"savings"`
		Expenditure []float64 `json:"expenditure"`
	} `json:"updated_data"`
}

// Quest is a quest visible on the quest board.
type Quest struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Points      int    `json:"points"`
	Progress    int    `json:"progress"`
	MaxProgress int    `json:"max_progress"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
}

// CompletedQuest is a quest the user has already finished.
type CompletedQuest struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Points        int    `json:"points"`
	CompletedDate string `json:"completed_date"`
}

// QuestsResponse is the body of GET /quests.
type QuestsResponse struct {
	UserPoints      int              `json:"user_points"`
	UserLevel       int              `json:"user_level"`
	UserBadges      []Badge          `json:"user_badges"`
	AvailableQuests []Quest          `json:"available_quests"`
	CompletedQuests []CompletedQuest `json:"completed_quests"`
}

// LeaderboardEntry is one row of the quest leaderboard.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Points int    `json:"points"`
	Level  int    `json:"level"`
}

// ClaimResponse acknowledges a quest claim.
type ClaimResponse struct {
	Points int `json:"points"`
}

// SectionCheckResponse reports the outcome of a quest section check.
type SectionCheckResponse struct {
	Message       string `json:"message"`
	PointsAwarded int    `json:"points_awarded"`
	Badge         *Badge `json:"badge"`
}

// UpdateResponse acknowledges a profile section update.
type UpdateResponse struct {
	Message     string   `json:"message"`
	UpdatedUser Document `json:"updated_user"`
}

// PlaybookResponse carries the advisor's reply.
type PlaybookResponse struct {
	Advice      string   `json:"advice"`
	UserSummary Document `json:"user_summary"`
}

// Factor describes one driver of the predicted credit score.
type Factor struct {
	Factor      string  `json:"factor"`
	Impact      float64 `json:"impact"`
	Description string  `json:"description"`
}

// ShapEntry is one feature attribution row.
type ShapEntry struct {
	Feature    string  `json:"feature"`
	ShapValue  float64 `json:"shap_value"`
	Importance float64 `json:"importance"`
}

// TrendPoint is one month of credit score history.
type TrendPoint struct {
	Month string  `json:"month"`
	Score float64 `json:"score"`
}

// BreakdownItem is one weighted component of the score.
type BreakdownItem struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
	Weight   int    `json:"weight"`
}

// Recommendation groups advice items under a category.
type Recommendation struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// CreditScoreResponse is the body of POST /credit-score.
type CreditScoreResponse struct {
	PredictedScore float64 `json:"predicted_score"`
	ScoreRange     string  `json:"score_range"`
	Confidence     int     `json:"confidence"`
	Factors        struct {
		Positive []Factor `json:"positive"`
		Negative []Factor `json:"negative"`
	} `json:"factors"`
	ShapExplanation []ShapEntry      `json:"shap_explanation"`
	HistoricalTrend []TrendPoint     `json:"historical_trend"`
	ScoreBreakdown  []BreakdownItem  `json:"score_breakdown"`
	Recommendations []Recommendation `json:"recommendations"`
}
