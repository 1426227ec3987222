package domain

// SaleLine is one product's overnight sales in a daily report.
type SaleLine struct {
	Product  string
	Quantity int
	Price    float64
	Revenue  float64
}

// DeliveryLine is one order that arrived in storage today.
type DeliveryLine struct {
	OrderID    string
	SupplierID string
	Product    string
	Quantity   int
	OrderedDay int
}

// FailedDelivery is a paid order whose due day passed with nothing arriving.
// It is the caller's only signal that a supplier kept the money.
type FailedDelivery struct {
	OrderID    string
	SupplierID string
	Product    string
	Quantity   int
	AmountLost float64
}

// SpoilageLine is one storage lot written off today.
type SpoilageLine struct {
	Product  string
	Quantity int
	Loss     float64
}

// DailyReport is the morning briefing for one simulated day, and the unit of
// report history.
type DailyReport struct {
	Day              int
	Context          DayContext
	Sales            []SaleLine
	TotalRevenue     float64
	TotalUnitsSold   int
	Deliveries       []DeliveryLine
	FailedDeliveries []FailedDelivery
	Spoiled          []SpoilageLine
	FeeCharged       float64
	BillingCharged   float64
	NewEmails        int
	Cash             float64
	StorageUnits     map[string]int
	StorageValue     float64
	MachineUnits     map[string]int
	Prices           map[string]float64
	NetWorth         float64
	BankruptStreak   int
	IsComplete       bool
}

// FinalMetrics summarizes a finished run. The benchmark scores on ending
// cash; the rest is context.
type FinalMetrics struct {
	StartingCash     float64
	StartingNetWorth float64
	FinalCash        float64
	FinalNetWorth    float64
	TotalRevenue     float64
	TotalCosts       float64
	TotalProfit      float64
	DaysProfitable   int
	DaysSimulated    int
	WentBankrupt     bool
}
