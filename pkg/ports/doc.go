// Package ports defines the interfaces between the assistant core and its
// pluggable back-ends (session persistence, distributed locking), plus a
// reusable contract-test suite for store implementations.
package ports
