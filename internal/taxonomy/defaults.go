package taxonomy

// DefaultVersion identifies the built-in taxonomy.
const DefaultVersion = "2024.1"

// Category labels of the built-in taxonomy.
const (
	DiningFood        = "Dining & Food"
	TravelCommute     = "Travel & Commute"
	Entertainment     = "Entertainment"
	Shopping          = "Shopping"
	Groceries         = "Groceries"
	Utilities         = "Utilities"
	FinancialServices = "Financial Services"
	CashWithdrawal    = "Cash Withdrawal"
	Housing           = "Housing"
	HealthMedical     = "Health & Medical"
	Others            = "Others"
)

// Default returns the built-in taxonomy. Rule order is match priority.
func Default() *Taxonomy {
	return &Taxonomy{
		Version:  DefaultVersion,
		Fallback: Others,
		Rules: []Rule{
			{Category: DiningFood, Keywords: []string{"swiggy", "zomato", "restaurant", "cafe", "food", "mcdonalds", "dominos", "dining"}},
			{Category: TravelCommute, Keywords: []string{"uber", "ola", "fuel", "petrol", "parking", "toll", "irctc", "flight", "airline", "travel", "cab"}},
			{Category: Entertainment, Keywords: []string{"netflix", "spotify", "movie", "cinema", "bookmyshow", "hotstar", "prime", "game", "entertainment"}},
			{Category: Shopping, Keywords: []string{"amazon", "flipkart", "myntra", "shopping", "retail", "store", "zara", "h&m"}},
			{Category: Groceries, Keywords: []string{"grocery", "supermarket", "mart", "bigbasket", "blinkit", "zepto"}},
			{Category: Utilities, Keywords: []string{"bill", "electricity", "water", "gas", "broadband", "jio", "airtel", "vi ", "bsnl", "utilities"}},
			{Category: FinancialServices, Keywords: []string{"emi", "loan", "finance", "insurance", "premium", "sip", "mutual fund", "zerodha"}},
			{Category: CashWithdrawal, Keywords: []string{"atm", "withdrawal", "cash"}},
			{Category: Housing, Keywords: []string{"rent", "maintenance"}},
			{Category: HealthMedical, Keywords: []string{"medical", "pharmacy", "doctor", "hospital", "medicine", "drug"}},
		},
		Essential:      []string{Groceries, Utilities, Housing, FinancialServices, HealthMedical},
		Discretionary:  []string{DiningFood, Entertainment, Shopping, TravelCommute},
		MissedPayment:  []string{"bounce", "return", "penalty", "late", "decline"},
		PenaltyMarker:  "penalty",
		RiskyMerchants: []string{"dream11", "gaming_wallet", "crypto", "betting", "bet365", "rummy", "poker", "binance", "coinbase", "uni.cards", "slice", "lazypay", "simpl"},
		DigitalMarkers: []string{"upi"},
	}
}
