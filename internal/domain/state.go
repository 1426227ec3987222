package domain

// InventoryLot is a batch of one product acquired on one day. Lots live in
// storage only; the machine tracks plain unit counts. Consumption is FIFO by
// AcquiredDay.
type InventoryLot struct {
	Product     string
	Quantity    int
	AcquiredDay int
	UnitCost    float64
	ExpiryDay   int // 0 means never expires
}

// Expired reports whether the lot has spoiled by the given day.
func (l InventoryLot) Expired(day int) bool {
	return l.ExpiryDay > 0 && day >= l.ExpiryDay
}

// Value is the acquisition value of what remains in the lot.
func (l InventoryLot) Value() float64 {
	return l.UnitCost * float64(l.Quantity)
}

// TransactionKind classifies ledger entries.
type TransactionKind string

const (
	TxSale            TransactionKind = "sale"
	TxPurchase        TransactionKind = "purchase"
	TxSpoilage        TransactionKind = "spoilage"
	TxFee             TransactionKind = "fee"
	TxSupplierPayment TransactionKind = "supplier_payment"
	TxTokenCost       TransactionKind = "token_cost"
)

// Transaction is one immutable ledger entry. Amount is signed: revenue
// positive, cost negative. BalanceAfter is the cash balance at insertion
// time, which makes the ledger independently auditable.
type Transaction struct {
	Day          int
	Kind         TransactionKind
	Product      string // empty for fees and billing
	Quantity     int
	Amount       float64
	BalanceAfter float64
	Note         string
}

// PendingOrder is stock in transit: paid for, not yet in storage.
type PendingOrder struct {
	ID          string
	SupplierID  string // empty for direct catalog orders
	Product     string
	Quantity    int
	UnitCost    float64
	OrderDay    int
	DeliveryDay int
	TotalCost   float64
}

// SlotUsage is the occupancy of one size class.
type SlotUsage struct {
	Used int
	Max  int
}

// Free returns the open slots in the class.
func (s SlotUsage) Free() int {
	return s.Max - s.Used
}

// Email is one message in a supplier thread.
type Email struct {
	ID        string
	From      string
	To        string
	Subject   string
	Body      string
	SentDay   int
	Read      bool
	RepliedTo string // id of the email this answers, if any
}

// NegotiationStatus tracks where a supplier conversation stands.
type NegotiationStatus string

const (
	NegotiationInitial  NegotiationStatus = "initial"
	NegotiationQuoted   NegotiationStatus = "quoted"
	NegotiationCounter  NegotiationStatus = "counter"
	NegotiationAccepted NegotiationStatus = "accepted"
	NegotiationRejected NegotiationStatus = "rejected"
)

// EmailThread is the full correspondence with one supplier, plus the
// negotiation state derived from it. Emails are append-only.
type EmailThread struct {
	SupplierID string
	Emails     []Email
	Status     NegotiationStatus
	Rounds     int // outbound emails counted as negotiation rounds
}
