// Package normalisers turns source documents into page text.
//
// Each subpackage handles one document format and implements the
// driven.TextExtractor port. Only PDF is supported today.
package normalisers
