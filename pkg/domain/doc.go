/*
Package domain contains the core value types of the Arbor engine: graph
definitions, node contracts, edge variants, node results and run records.

It has no dependencies on the runtime or on any adapter, so it can be imported
by hosts, stores and transports alike.
*/
package domain
