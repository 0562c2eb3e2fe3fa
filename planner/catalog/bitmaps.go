package catalog

import (
	roaring "github.com/RoaringBitmap/roaring"
)

// filterBitmaps holds roaring bitmaps over insertion ordinals, one per
// distribution group plus one for full sections. Bitmap iteration is in
// ascending ordinal order, which is exactly the catalog's insertion
// order, so the query engine can prefilter candidates without changing
// the deterministic scan order.
type filterBitmaps struct {
	all    *roaring.Bitmap
	normal *roaring.Bitmap
	d1     *roaring.Bitmap
	d2     *roaring.Bitmap
	d3     *roaring.Bitmap
	indep  *roaring.Bitmap
	full   *roaring.Bitmap
}

func newFilterBitmaps() *filterBitmaps {
	return &filterBitmaps{
		all:    roaring.New(),
		normal: roaring.New(),
		d1:     roaring.New(),
		d2:     roaring.New(),
		d3:     roaring.New(),
		indep:  roaring.New(),
		full:   roaring.New(),
	}
}

func (fb *filterBitmaps) add(ordinal uint32, c *CourseRecord) {
	fb.all.Add(ordinal)

	switch c.distribution {
	case DistributionD1:
		fb.d1.Add(ordinal)
	case DistributionD2:
		fb.d2.Add(ordinal)
	case DistributionD3:
		fb.d3.Add(ordinal)
	default:
		fb.normal.Add(ordinal)
	}
	if c.independentStudy {
		fb.indep.Add(ordinal)
	}
	if c.IsFull() {
		fb.full.Add(ordinal)
	}
}

// matches evaluates a filter selection as bitmap algebra. The result is a
// fresh bitmap owned by the caller and is equivalent to testing
// PassesFilters record by record.
func (fb *filterBitmaps) matches(f Filter) *roaring.Bitmap {
	var res *roaring.Bitmap
	if f.distributionsDisabled() {
		res = fb.all.Clone()
	} else {
		res = roaring.New()
		if f.Normal {
			res.Or(fb.normal)
		}
		if f.D1 {
			res.Or(fb.d1)
		}
		if f.D2 {
			res.Or(fb.d2)
		}
		if f.D3 {
			res.Or(fb.d3)
		}
		if f.IndependentStudy {
			res.Or(fb.indep)
		}
	}

	if f.HideFull {
		res.AndNot(fb.full)
	}
	return res
}
