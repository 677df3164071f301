package dashboard

import (
	"testing"

	"github.com/rasika1205/FinCoachAI/internal/fincoach"
)

func TestSavingsTrendUsesLastThreeMonths(t *testing.T) {
	trend := savingsTrend([]float64{500, 900, 1000, 1200, 1600})
	if trend == nil {
		t.Fatal("expected a trend")
	}
	if trend.Direction != "up" {
		t.Fatalf("expected upward trend, got %q", trend.Direction)
	}
	// Oldest of the last three is 1000, newest is 1600.
	if trend.Delta != 600 {
		t.Fatalf("expected delta 600, got %v", trend.Delta)
	}
	if trend.Percent != 60 {
		t.Fatalf("expected 60 percent, got %v", trend.Percent)
	}
}

func TestSavingsTrendDownward(t *testing.T) {
	trend := savingsTrend([]float64{1000, 800})
	if trend == nil || trend.Direction != "down" {
		t.Fatalf("expected downward trend, got %+v", trend)
	}
	if trend.Delta != 200 {
		t.Fatalf("expected delta magnitude 200, got %v", trend.Delta)
	}
}

func TestSavingsTrendNeedsTwoMonths(t *testing.T) {
	if trend := savingsTrend([]float64{1000}); trend != nil {
		t.Fatalf("expected no trend for a single month, got %+v", trend)
	}
	if trend := savingsTrend(nil); trend != nil {
		t.Fatalf("expected no trend without data, got %+v", trend)
	}
}

func TestBuildPageTotals(t *testing.T) {
	doc := fincoach.UserDocument{
		Email: "a@b.com",
		Job:   fincoach.JobDetails{Salary: 50000},
		SavingsAccounts: []fincoach.Account{
			{BankName: "SBI", Balance: 20000},
			{BankName: "HDFC", Balance: 5000},
		},
		CurrentAccounts: []fincoach.Account{{BankName: "ICICI", Balance: 3000}},
		Investments: []fincoach.Investment{
			{Stock: "NIFTYBEES", Quantity: 100, Value: 25000},
		},
		Loans:  []fincoach.Loan{{Type: "car", Amount: 400000, EMI: 9000}},
		Assets: []fincoach.Asset{{Type: "gold", Value: 150000}},
		Quests: fincoach.QuestWallet{Points: 750, Badges: []fincoach.Badge{{Name: "Saver"}}},
	}

	data := buildPage("a", doc)
	if data.Salary != 50000 {
		t.Fatalf("unexpected salary %v", data.Salary)
	}
	if data.TotalBalance != 28000 {
		t.Fatalf("expected balance across all accounts, got %v", data.TotalBalance)
	}
	if data.TotalInvestments != 25000 {
		t.Fatalf("unexpected investments %v", data.TotalInvestments)
	}
	if data.TotalLoans != 400000 {
		t.Fatalf("unexpected loans %v", data.TotalLoans)
	}
	if data.QuestPoints != 750 || data.BadgeCount != 1 {
		t.Fatalf("unexpected quest summary %+v", data)
	}
	if len(data.Allocation) != 3 {
		t.Fatalf("expected three allocation rows, got %d", len(data.Allocation))
	}
	if data.Allocation[2].Value != 150000 {
		t.Fatalf("expected asset row value 150000, got %v", data.Allocation[2].Value)
	}
}

func TestRenderChartSkipsEmptyDocument(t *testing.T) {
	chart, err := renderChart(fincoach.UserDocument{})
	if err != nil {
		t.Fatalf("renderChart: %v", err)
	}
	if chart != "" {
		t.Fatalf("expected no chart for empty series, got %q", chart)
	}
}
