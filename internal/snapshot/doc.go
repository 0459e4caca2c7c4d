// Package snapshot keeps the current post index and replaces it when content
// changes.
//
// Readers call Holder.Current and keep using the index they got for as long
// as they like; a reload builds a fresh index and swaps it in. Watcher
// (filesystem events) and Poller (fixed interval) decide when to reload.
package snapshot
