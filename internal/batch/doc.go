// Package batch runs many scans concurrently with a bounded number of
// goroutines and returns the outcomes in input order.
package batch
