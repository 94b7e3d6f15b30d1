package pdfgrid

// detectRegions scans one page's classified lines in order, grouping
// consecutive compatible candidate lines into regions. carry is a region
// still open when the previous page ended; it is extended by the first line
// of this page when that line is compatible, which is how tables spanning a
// page break stay a single region.
//
// A non-candidate line closes the open region. A candidate line with an
// incompatible part count also closes it and is not itself included.
// Regions shorter than cfg.MinRegionLines are dropped at close time.
//
// Returns the regions closed on this page, in discovery order, plus the
// region still open when the page ended (nil if none).
func detectRegions(lines []ClassifiedLine, carry *CandidateRegion, cfg Config) ([]CandidateRegion, *CandidateRegion) {
	var regions []CandidateRegion
	open := carry

	closeOpen := func() {
		if open != nil && len(open.Rows) >= cfg.MinRegionLines {
			regions = append(regions, *open)
		}
		open = nil
	}

	for _, cl := range lines {
		if !cl.Candidate {
			closeOpen()
			continue
		}
		if open == nil {
			open = &CandidateRegion{
				StartPage: cl.Line.Page,
				EndPage:   cl.Line.Page,
				PartCount: cl.PartCount(),
				Rows:      [][]string{cl.Cells},
			}
			continue
		}
		if compatibleParts(cl.PartCount(), open.PartCount, cfg.PartCountTolerance) {
			open.Rows = append(open.Rows, cl.Cells)
			open.EndPage = cl.Line.Page
			continue
		}
		closeOpen()
	}

	return regions, open
}

// compatibleParts reports whether a line with partCount cells may extend a
// region whose established part count is established.
func compatibleParts(partCount, established, tolerance int) bool {
	diff := partCount - established
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

// finalizeRegion closes a region carried past the last page (or past a page
// whose continuation was disabled), applying the same minimum-size rule as
// in-page closure.
func finalizeRegion(regions []CandidateRegion, open *CandidateRegion, cfg Config) []CandidateRegion {
	if open != nil && len(open.Rows) >= cfg.MinRegionLines {
		regions = append(regions, *open)
	}
	return regions
}
