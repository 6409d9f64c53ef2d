// Package util provides generic utility functions for ssekit packages.
//
// It includes slice operations, pointer helpers, map utilities, and string
// sanitization.
package util
