// Package filesystem reads the corpus from a local directory.
package filesystem
