// Package kernel holds the value objects shared by the kitchen domain:
// UUID identifiers and the human-readable OrderNumber. Both are immutable
// and safe to copy between goroutines; their zero values are invalid and
// fail Validate.
package kernel
