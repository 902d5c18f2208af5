// Package logs reads the recroute log file for `recroute logs`.
//
// Last returns the final lines of the file with bounded memory and the byte
// offset where reading stopped; Follow streams lines appended after an offset
// until its context is cancelled.
package logs
