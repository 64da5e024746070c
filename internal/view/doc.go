// Package view holds the client's output regions.
//
// A View owns one Region per output target. Operations reserve a region
// with Begin before issuing a request and Commit the rendered fragment when
// the response arrives; only the latest reservation for a region can commit,
// so a slow response never overwrites a newer one.
package view
