// Package cli provides the interactive console over the durable string map.
//
// It implements the command loop: read a line, parse it into a Command,
// validate argument count, dispatch to the store, render the result. Commands
// are recognized by the first letter of the first token, so "l", "ls" and
// "list" all mean the same thing:
//
//	l[ist]               - list entries
//	p[ut] <key> <value>  - add/update entry
//	q[uery] <key>        - query key
//	d[elete] <key>       - delete entry
//
// Anything else, including an empty line or missing arguments, prints the
// usage block and leaves the store untouched. The loop runs until the input
// stream ends; there is no in-band quit command.
//
// The loop is started via Run, which blocks until end of input or a fatal
// error. See Parse, App.Dispatch, and Run for details.
package cli
