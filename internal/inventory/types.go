package inventory

// Unit is a measurement unit. Units are seeded once and never change.
type Unit struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Item is an inventory record with its unit resolved.
type Item struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Unit  Unit   `json:"unit"`
	Notes string `json:"notes"`
}

// Transaction marks a logical batch of moves.
type Transaction struct {
	ID int64 `json:"id"`
}

// Location is where an item currently sits.
type Location string

const (
	Unboxed Location = "unboxed"
	Boxed   Location = "boxed"
)

// Valid reports whether l is a known location.
func (l Location) Valid() bool {
	return l == Unboxed || l == Boxed
}

// Move is a single ledger entry. Seq is 1-based within its transaction.
type Move struct {
	ID            int64    `json:"id"`
	TransactionID int64    `json:"transaction_id"`
	Seq           int64    `json:"seq"`
	ItemID        int64    `json:"item_id"`
	Location      Location `json:"location"`
}

// SeedUnit is a (name, symbol) pair inserted at initialization.
type SeedUnit struct {
	Name   string
	Symbol string
}

// DefaultUnitName is the unit that always receives the lowest id.
const DefaultUnitName = "each"

// SeedUnits lists the units created at initialization, in insertion order.
var SeedUnits = []SeedUnit{
	{Name: "each", Symbol: "ea"},
	{Name: "feet", Symbol: "ft"},
	{Name: "inches", Symbol: "in"},
	{Name: "meters", Symbol: "m"},
	{Name: "centimeters", Symbol: "cm"},
	{Name: "millimeters", Symbol: "mm"},
}
