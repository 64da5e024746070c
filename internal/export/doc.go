// Package export writes a downloaded scan history to a file or stream.
//
// Writers exist for plain text, Markdown, JSON and PDF. All implement the
// Writer interface and can be combined with MultiWriter, so the same
// history can go to stdout and a file in one pass.
package export
