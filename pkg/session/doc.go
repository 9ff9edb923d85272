/*
Package session orchestrates analyses and their persistence.

It deduplicates concurrent requests for the same grid across goroutines (and, with a
distributed locker, across replicas), serves previously computed reports from the
store, and persists new ones.
*/
package session
