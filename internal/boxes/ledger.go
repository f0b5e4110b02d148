package boxes

import "github.com/roach88/homeinv/internal/inventory"

// Box names used when exporting the relational inventory.
const (
	UnboxedName = "Unboxed"
	BoxedName   = "Boxed"
)

// FromLedger sorts items into an "Unboxed" and a "Boxed" box by their current
// location. Items missing from locations are Unboxed. Both boxes are always
// returned, Unboxed first, items in the given order.
func FromLedger(items []inventory.Item, locations map[int64]inventory.Location) []*Box {
	unboxed := New(UnboxedName)
	boxed := New(BoxedName)
	for _, item := range items {
		if inventory.LocationOf(locations, item.ID) == inventory.Boxed {
			boxed.Add(item.Name)
		} else {
			unboxed.Add(item.Name)
		}
	}
	return []*Box{unboxed, boxed}
}
