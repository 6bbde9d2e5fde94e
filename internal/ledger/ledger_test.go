package ledger

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/cashscore/internal/model"
)

func TestStandardParser_Parse(t *testing.T) {
	f, err := os.Open("../../testdata/ledger.csv")
	require.NoError(t, err)
	defer f.Close()

	p := &StandardParser{}
	txns, err := p.Parse(f)
	require.NoError(t, err)
	assert.Len(t, txns, 34)

	// First: C001 salary
	assert.Equal(t, "C001", txns[0].CustomerID)
	assert.Equal(t, "80000.00", txns[0].Amount.StringFixed(2))
	assert.Equal(t, model.DirectionCredit, txns[0].Direction)
	assert.Equal(t, "Salary", txns[0].Category)
	assert.Equal(t, "NEFT", txns[0].Channel)
	assert.Equal(t, 2025, txns[0].Date.Year())
	assert.Equal(t, 1, int(txns[0].Date.Month()))
	assert.Equal(t, 1, txns[0].Date.Day())

	for _, txn := range txns {
		assert.False(t, txn.Amount.IsNegative(), "negative amount for %s", txn.Description)
	}
}

func TestStandardParser_EmptyFile(t *testing.T) {
	p := &StandardParser{}
	txns, err := p.Parse(strings.NewReader("customer_id,transaction_date,transaction_amount,transaction_direction,description\n"))
	require.NoError(t, err)
	assert.Nil(t, txns)
}

func TestStandardParser_Errors(t *testing.T) {
	header := "customer_id,transaction_date,transaction_amount,transaction_direction,description\n"
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{"bad date", header + "C1,01/02/2025,10,CREDIT,x\n", "parsing date"},
		{"bad amount", header + "C1,2025-01-02,ten,CREDIT,x\n", "parsing amount"},
		{"negative amount", header + "C1,2025-01-02,-10,CREDIT,x\n", "negative amount"},
		{"bad direction", header + "C1,2025-01-02,10,SIDEWAYS,x\n", "unknown direction"},
		{"missing column", "customer_id,transaction_date\nC1,2025-01-02\n", "missing columns"},
	}
	p := &StandardParser{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStandardParser_RowNumberInError(t *testing.T) {
	csv := "customer_id,transaction_date,transaction_amount,transaction_direction,description\n" +
		"C1,2025-01-02,10,CREDIT,ok\n" +
		"C1,2025-01-03,10,credit,lower-case direction is fine\n" +
		"C1,2025-01-04,10,NOPE,bad\n"
	_, err := (&StandardParser{}).Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 4")
}

func TestStandardParser_HeaderOrderAndCase(t *testing.T) {
	csv := "Description, Transaction_Direction ,TRANSACTION_AMOUNT,transaction_date,customer_id\n" +
		"UPI/Zomato,debit,250.50,2025-03-09,C9\n"
	txns, err := (&StandardParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "C9", txns[0].CustomerID)
	assert.Equal(t, model.DirectionDebit, txns[0].Direction)
	assert.Equal(t, "250.50", txns[0].Amount.StringFixed(2))
	assert.Equal(t, "UPI/Zomato", txns[0].Description)
	assert.Empty(t, txns[0].Category)
}

func TestStatementParser_Parse(t *testing.T) {
	data, err := os.ReadFile("../../testdata/statement.csv")
	require.NoError(t, err)

	p := &StatementParser{}
	txns, err := p.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	require.Len(t, txns, 4)

	assert.Equal(t, model.DirectionCredit, txns[0].Direction)
	assert.Equal(t, "1200.50", txns[0].Amount.StringFixed(2))

	// Second: grocery debit stored as positive amount
	assert.Equal(t, model.DirectionDebit, txns[1].Direction)
	assert.Equal(t, "850.00", txns[1].Amount.StringFixed(2))
	assert.Equal(t, "UPI/BigBasket", txns[1].Description)
	assert.Equal(t, 3, txns[1].Date.Day())
	assert.Equal(t, 1, int(txns[1].Date.Month()))

	for _, txn := range txns {
		assert.Empty(t, txn.CustomerID)
	}
}

func TestStatementParser_BadDate(t *testing.T) {
	csv := "Date,Narration,Amount\n2025-01-03,desc,-4.00\n"
	_, err := (&StatementParser{}).Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing date")
	assert.Contains(t, err.Error(), "row 2")
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	assert.NotNil(t, r.Get("standard"))
	assert.NotNil(t, r.Get("STATEMENT"))
	assert.Nil(t, r.Get("ofx"))

	_, err := r.Lookup("ofx")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	p, err := r.Lookup("Standard")
	require.NoError(t, err)
	assert.Equal(t, "standard", p.Format())
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&StandardParser{})
	assert.Panics(t, func() { r.Register(&StandardParser{}) })
}

func TestByCustomer(t *testing.T) {
	f, err := os.Open("../../testdata/ledger.csv")
	require.NoError(t, err)
	defer f.Close()

	txns, err := (&StandardParser{}).Parse(f)
	require.NoError(t, err)

	byCust := ByCustomer(txns)
	assert.Len(t, byCust, 2)
	assert.Len(t, byCust["C001"], 24)
	assert.Len(t, byCust["C002"], 10)

	// Row order is preserved within a customer.
	c2 := byCust["C002"]
	for i := 1; i < len(c2); i++ {
		assert.False(t, c2[i].Date.Before(c2[i-1].Date))
	}
}

func TestAssignCustomer(t *testing.T) {
	in := []model.Transaction{{Description: "a"}, {Description: "b"}}
	out := AssignCustomer(in, "C42")
	for _, txn := range out {
		assert.Equal(t, "C42", txn.CustomerID)
	}
	assert.Empty(t, in[0].CustomerID, "input must not be mutated")
}

func TestReadProfiles(t *testing.T) {
	f, err := os.Open("../../testdata/profiles.csv")
	require.NoError(t, err)
	defer f.Close()

	profiles, err := ReadProfiles(f)
	require.NoError(t, err)
	require.Len(t, profiles, 3)

	assert.Equal(t, "C001", profiles[0].CustomerID)
	assert.Equal(t, "Aarav Verma", profiles[0].Name)
	assert.Equal(t, model.EmploymentSalaried, profiles[0].EmploymentType)
	assert.Equal(t, "80000", profiles[0].DeclaredMonthlyIncome.String())
	assert.Equal(t, "Tier 1", profiles[0].CityTier)

	assert.Equal(t, model.EmploymentGig, profiles[1].EmploymentType)
	assert.Equal(t, model.EmploymentSelfEmployed, profiles[2].EmploymentType)
}

func TestReadProfiles_Errors(t *testing.T) {
	header := "customer_id,employment_type,declared_monthly_income,city_tier\n"
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{"unknown employment", header + "C1,Retired,1000,Tier 1\n", "unknown employment_type"},
		{"bad income", header + "C1,Gig,lots,Tier 1\n", "declared_monthly_income"},
		{"zero income", header + "C1,Gig,0,Tier 1\n", "must be positive"},
		{"empty id", header + ",Gig,1000,Tier 1\n", "empty customer_id"},
		{"duplicate id", header + "C1,Gig,1000,Tier 1\nC1,Gig,2000,Tier 2\n", "row 3: duplicate customer_id"},
		{"missing column", "customer_id,employment_type\nC1,Gig\n", "missing columns"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadProfiles(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
