// Package harness runs scripted scenarios against an inventory store.
//
// A scenario is a YAML file of store operations plus assertions over the
// resulting trace and the final database state. Each run uses a fresh
// in-memory store, a fixed store id and a step sequence starting at 1, so
// traces are reproducible and can be compared with golden files.
//
// # Scenario Format
//
//	name: bolt_lifecycle
//	description: "What this scenario checks"
//	setup:
//	  - op: create_item
//	    args: { name: Washer, unit: each }
//	flow:
//	  - op: box_one
//	    args: { item_id: 1 }
//	    expect:
//	      case: ok
//	      result: { transaction_id: 1, seq: 1 }
//	  - op: delete_item
//	    args: { item_id: 1 }
//	    expect:
//	      case: ITEM_HAS_HISTORY
//	assertions:
//	  - type: item_location
//	    item_id: 1
//	    location: boxed
//	  - type: final_state
//	    table: Item
//	    where: { id: 1 }
//	    expect: { name: Washer }
//
// Setup steps must succeed. Flow steps are checked against their expect
// clause; a missing clause means case "ok". The case of a failed operation
// is its store error code.
//
// # Operations
//
//	create_item          name, unit (name) or unit_id, notes -> item_id
//	update_item          item_id, name, unit or unit_id, notes
//	delete_item          item_id
//	purge_item           item_id
//	create_transaction   -> transaction_id
//	current_transaction  -> transaction_id
//	box_one, unbox       item_id -> transaction_id, seq, location
//	box_all              -> moved
//	location             item_id -> location
//	fetch_items          -> count, names
//	fetch_units          -> count, names
//	search_items         query -> count, names
//
// # Assertion Types
//
//   - trace_contains: an op was called, optionally with matching args
//   - trace_order: ops were called in the given order
//   - trace_count: an op was called exactly N times
//   - final_state: exactly one row of a table matches where, with expect values
//   - item_location: an item's current ledger location
package harness
