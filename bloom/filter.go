// Package bloom provides document deduplication using Bloom filters.
package bloom

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/prettyrfc"
)

// Filter records which documents have been seen.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected documents
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add marks a document as seen.
func (f *Filter) Add(id prettyrfc.DocumentID) {
	f.f.AddString(string(id))
}

// Test returns true if the document might have been seen.
// False positives are possible; false negatives are not.
func (f *Filter) Test(id prettyrfc.DocumentID) bool {
	return f.f.TestString(string(id))
}

// TestAndAdd marks a document as seen and reports whether it might have
// been seen before.
func (f *Filter) TestAndAdd(id prettyrfc.DocumentID) bool {
	return f.f.TestAndAddString(string(id))
}

// EstimatedCount returns the approximate number of documents in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
