// Package utils converts loosely typed values, such as the extra fields of a
// decoded JSON record, into plain Go types.
package utils
