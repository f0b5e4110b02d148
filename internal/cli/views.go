package cli

import (
	"fmt"
	"strings"

	"github.com/roach88/homeinv/internal/boxes"
	"github.com/roach88/homeinv/internal/inventory"
	"github.com/roach88/homeinv/internal/store"
)

// Payloads passed to OutputFormatter.Success. JSON output uses the struct
// tags; text output uses String.

// LocationGroup lists the items currently at one location.
type LocationGroup struct {
	Location inventory.Location `json:"location"`
	Items    []inventory.Item   `json:"items"`
}

// InventoryView is the default view: every item grouped by location,
// Unboxed first.
type InventoryView struct {
	Database string          `json:"database"`
	Groups   []LocationGroup `json:"groups"`
}

func newInventoryView(path string, items []inventory.Item, locations map[int64]inventory.Location) InventoryView {
	unboxed := LocationGroup{Location: inventory.Unboxed, Items: []inventory.Item{}}
	boxed := LocationGroup{Location: inventory.Boxed, Items: []inventory.Item{}}
	for _, item := range items {
		if inventory.LocationOf(locations, item.ID) == inventory.Boxed {
			boxed.Items = append(boxed.Items, item)
		} else {
			unboxed.Items = append(unboxed.Items, item)
		}
	}
	return InventoryView{Database: path, Groups: []LocationGroup{unboxed, boxed}}
}

func (v InventoryView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Inventory %s\n", v.Database)
	for _, g := range v.Groups {
		fmt.Fprintf(&b, "\n%s (%d)\n", groupTitle(g.Location), len(g.Items))
		for _, item := range g.Items {
			b.WriteString("  ")
			b.WriteString(itemLine(item))
			b.WriteByte('\n')
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func groupTitle(loc inventory.Location) string {
	if loc == inventory.Boxed {
		return boxes.BoxedName
	}
	return boxes.UnboxedName
}

func itemLine(item inventory.Item) string {
	line := fmt.Sprintf("%4d  %s [%s]", item.ID, item.Name, item.Unit.Symbol)
	if item.Notes != "" {
		line += "  " + item.Notes
	}
	return line
}

// ItemsView lists items.
type ItemsView struct {
	Items []inventory.Item `json:"items"`
}

func (v ItemsView) String() string {
	if len(v.Items) == 0 {
		return "No items."
	}
	lines := make([]string, len(v.Items))
	for i, item := range v.Items {
		lines[i] = itemLine(item)
	}
	return strings.Join(lines, "\n")
}

// ItemView reports a single item after a change.
type ItemView struct {
	Action string         `json:"action"`
	Item   inventory.Item `json:"item"`
}

func (v ItemView) String() string {
	return fmt.Sprintf("%s item %d: %s [%s]", v.Action, v.Item.ID, v.Item.Name, v.Item.Unit.Symbol)
}

// DeletedView reports a removed item.
type DeletedView struct {
	ItemID int64 `json:"item_id"`
	Purged bool  `json:"purged"`
}

func (v DeletedView) String() string {
	if v.Purged {
		return fmt.Sprintf("Purged item %d and its moves", v.ItemID)
	}
	return fmt.Sprintf("Deleted item %d", v.ItemID)
}

// UnitsView lists units.
type UnitsView struct {
	Units []inventory.Unit `json:"units"`
}

func (v UnitsView) String() string {
	lines := make([]string, len(v.Units))
	for i, u := range v.Units {
		lines[i] = fmt.Sprintf("%4d  %-12s %s", u.ID, u.Name, u.Symbol)
	}
	return strings.Join(lines, "\n")
}

// TransactionView reports a transaction id.
type TransactionView struct {
	Transaction int64 `json:"transaction"`
	Created     bool  `json:"created"`
}

func (v TransactionView) String() string {
	if v.Created {
		return fmt.Sprintf("Started transaction %d", v.Transaction)
	}
	return fmt.Sprintf("Current transaction %d", v.Transaction)
}

// MovesView lists ledger moves.
type MovesView struct {
	Moves []inventory.Move `json:"moves"`
}

func (v MovesView) String() string {
	if len(v.Moves) == 0 {
		return "No moves."
	}
	lines := make([]string, len(v.Moves))
	for i, m := range v.Moves {
		lines[i] = fmt.Sprintf("txn %d #%d  item %d -> %s", m.TransactionID, m.Seq, m.ItemID, m.Location)
	}
	return strings.Join(lines, "\n")
}

// InfoView describes a store.
type InfoView struct {
	Database string `json:"database"`
	store.Info
}

func (v InfoView) String() string {
	return fmt.Sprintf(`Database:            %s
Store ID:            %s
Schema version:      %d
Units:               %d
Items:               %d
Transactions:        %d
Moves:               %d
Current transaction: %d`,
		v.Database, v.StoreID, v.SchemaVersion, v.Units, v.Items,
		v.Transactions, v.Moves, v.CurrentTransaction)
}

// InitView reports a newly created store.
type InitView struct {
	Database string `json:"database"`
	StoreID  string `json:"store_id"`
}

func (v InitView) String() string {
	return fmt.Sprintf("Initialized %s (store %s)", v.Database, v.StoreID)
}

// BoxContents is one box of a CSV file.
type BoxContents struct {
	Box   string   `json:"box"`
	Items []string `json:"items"`
}

// BoxesView lists the boxes of a CSV file.
type BoxesView struct {
	File  string        `json:"file"`
	Boxes []BoxContents `json:"boxes"`
}

func newBoxesView(file string, bs []*boxes.Box) BoxesView {
	v := BoxesView{File: file, Boxes: make([]BoxContents, len(bs))}
	for i, b := range bs {
		v.Boxes[i] = BoxContents{Box: b.Name, Items: b.Items()}
	}
	return v
}

func (v BoxesView) String() string {
	if len(v.Boxes) == 0 {
		return "No boxes."
	}
	var b strings.Builder
	for i, box := range v.Boxes {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s (%d)\n", box.Box, len(box.Items))
		for _, item := range box.Items {
			fmt.Fprintf(&b, "  %s\n", item)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// SearchView lists the boxes holding matches for a query.
type SearchView struct {
	Query   string        `json:"query"`
	Matches []boxes.Match `json:"matches"`
}

func (v SearchView) String() string {
	if len(v.Matches) == 0 {
		return fmt.Sprintf("No items match %q.", v.Query)
	}
	var b strings.Builder
	for _, m := range v.Matches {
		for _, item := range m.Items {
			fmt.Fprintf(&b, "%s: %s\n", m.Box, item)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// ExportView reports a CSV export.
type ExportView struct {
	File    string `json:"file"`
	Unboxed int    `json:"unboxed"`
	Boxed   int    `json:"boxed"`
}

func (v ExportView) String() string {
	return fmt.Sprintf("Exported %d unboxed and %d boxed item(s) to %s", v.Unboxed, v.Boxed, v.File)
}
