package domain

import "math"

// Persona is the closed set of supplier behavior profiles. Discount curves
// and delivery reliability dispatch on it exhaustively; there is no default
// persona.
type Persona string

const (
	PersonaFriendly          Persona = "friendly"
	PersonaNegotiator        Persona = "negotiator"
	PersonaMembershipScammer Persona = "membership_scammer"
	PersonaPriceScammer      Persona = "price_scammer"
)

// Supplier is a static catalog entry describing one counterparty.
type Supplier struct {
	ID                     string
	Name                   string
	Email                  string
	Persona                Persona
	BasePrices             map[string]float64 // product id -> unit price
	NegotiationFlexibility float64            // 0-1, ceiling on discounts
	Reliability            float64            // 0-1, chance a paid order ships
	ResponseDelayDays      int
	MembershipFee          float64 // 0 when the supplier has no fee
	MinOrderQty            int
	DeliveryDays           int
}

// HasMembershipFee reports whether orders are gated on an upfront fee.
func (s Supplier) HasMembershipFee() bool {
	return s.MembershipFee > 0
}

// Suppliers is the fixed counterparty catalog. All four sell the same
// products; what differs is price, honesty, and how far they bend.
var Suppliers = map[string]Supplier{
	"wholesale_direct": {
		ID:      "wholesale_direct",
		Name:    "Wholesale Direct",
		Email:   "orders@wholesaledirect.com",
		Persona: PersonaFriendly,
		BasePrices: map[string]float64{
			"coffee": 1.00, "chocolate": 0.50, "chips": 0.35, "soda": 0.45,
		},
		NegotiationFlexibility: 0.1,
		Reliability:            0.95,
		ResponseDelayDays:      1,
		MinOrderQty:            10,
		DeliveryDays:           2,
	},
	"bulk_suppliers_inc": {
		ID:      "bulk_suppliers_inc",
		Name:    "Bulk Suppliers Inc",
		Email:   "sales@bulksuppliers.com",
		Persona: PersonaNegotiator,
		BasePrices: map[string]float64{
			"coffee": 1.80, "chocolate": 1.00, "chips": 0.80, "soda": 0.90,
		},
		NegotiationFlexibility: 0.5,
		Reliability:            0.90,
		ResponseDelayDays:      1,
		MinOrderQty:            20,
		DeliveryDays:           3,
	},
	"vending_elite": {
		ID:      "vending_elite",
		Name:    "Vending Elite Club",
		Email:   "membership@vendingelite.com",
		Persona: PersonaMembershipScammer,
		BasePrices: map[string]float64{
			"coffee": 0.80, "chocolate": 0.40, "chips": 0.30, "soda": 0.35,
		},
		NegotiationFlexibility: 0.0,
		Reliability:            0.2,
		ResponseDelayDays:      1,
		MembershipFee:          75.0,
		MinOrderQty:            5,
		DeliveryDays:           5,
	},
	"vendmart": {
		ID:      "vendmart",
		Name:    "VendMart",
		Email:   "vendmart@vendmart.com",
		Persona: PersonaPriceScammer,
		BasePrices: map[string]float64{
			"coffee": 2.50, "chocolate": 2.00, "chips": 1.50, "soda": 2.40,
		},
		NegotiationFlexibility: 0.1,
		Reliability:            0.85,
		ResponseDelayDays:      1,
		MinOrderQty:            10,
		DeliveryDays:           2,
	},
}

// SupplierIDs is the catalog in stable order, for deterministic listings.
var SupplierIDs = []string{"wholesale_direct", "bulk_suppliers_inc", "vending_elite", "vendmart"}

// SupplierByEmail resolves an address back to its catalog entry.
func SupplierByEmail(email string) (Supplier, bool) {
	for _, id := range SupplierIDs {
		s := Suppliers[id]
		if s.Email == email {
			return s, true
		}
	}
	return Supplier{}, false
}

// Quote totals an order at the supplier's undiscounted base prices. Products
// the supplier does not carry contribute nothing.
func Quote(s Supplier, products map[string]int) float64 {
	total := 0.0
	for product, qty := range products {
		if unit, ok := s.BasePrices[product]; ok {
			total += unit * float64(qty)
		}
	}
	return total
}

// Negotiate applies the persona's discount curve to a quoted total after the
// given number of back-and-forth rounds.
//
// The friendly supplier already prices near cost and barely moves. The
// negotiator concedes fast at first and asymptotes to its flexibility. The
// membership scammer never discounts — its revenue model is the fee. The
// price scammer pretends to move.
func Negotiate(s Supplier, baseTotal float64, rounds int) float64 {
	var discount float64
	switch s.Persona {
	case PersonaFriendly:
		discount = math.Min(s.NegotiationFlexibility*float64(rounds)*0.02, 0.05)
	case PersonaNegotiator:
		discount = math.Min(s.NegotiationFlexibility*(1-math.Pow(0.7, float64(rounds))), s.NegotiationFlexibility)
	case PersonaMembershipScammer:
		discount = 0
	case PersonaPriceScammer:
		discount = math.Min(s.NegotiationFlexibility*float64(rounds)*0.01, 0.05)
	}
	return baseTotal * (1 - discount)
}
