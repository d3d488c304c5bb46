// Package connectors holds the document sources the indexer reads from.
//
// The filesystem subpackage lists the PDFs in the corpus directory and
// implements the driven.CorpusScanner port.
package connectors
