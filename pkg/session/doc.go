/*
Package session orchestrates concurrent access to assistant sessions.

It pairs a persistence store with per-session locking so that multiple
callers (or multiple replicas, via a distributed locker) can safely run
discovery and elicitation steps against the same session id. Engines are
rehydrated from the stored record on entry and snapshotted back on exit.
*/
package session
