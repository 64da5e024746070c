// Package tui is the interactive terminal front end.
//
// Every controller operation runs as a tea.Cmd, so the event loop never
// waits on the network. The model only reads view regions; the controller
// writes them, and the view observer asks the program to redraw.
package tui
