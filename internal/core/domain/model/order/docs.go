// Package order implements the kitchen order aggregate.
//
// An Order owns one or more Items. Each item walks the forward-only chain
// pending -> preparing -> ready -> served (jumps allowed, no regression).
// The order's aggregate Status is derived from its items:
//
//	all items pending  -> pending
//	all items served   -> ready_to_complete
//	any other mix      -> preparing
//
// and becomes completed only through Order.Complete, after which the order
// rejects every mutation.
package order
