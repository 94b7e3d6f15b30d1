package pdfgrid

// detectionStats counts what the detection pass saw, for metrics reporting.
type detectionStats struct {
	Lines          int
	CandidateLines int
	Regions        int
	Tables         int
	Rows           int
}

// DetectTables runs the full detection pipeline over the recovered lines of
// a document: classify each line, group compatible candidate lines into
// regions (carrying an open region across page breaks), refine each region
// into a rectangular table, and number the survivors per page starting at 1.
//
// The result depends only on line order and content; pages must be supplied
// in page order. No I/O is performed.
func DetectTables(pages []PageLines, cfg Config) []Table {
	tables, _ := detectTables(pages, cfg)
	return tables
}

func detectTables(pages []PageLines, cfg Config) ([]Table, detectionStats) {
	var stats detectionStats
	var regions []CandidateRegion
	var carry *CandidateRegion

	for _, page := range pages {
		if carry != nil && !cfg.MergeAcrossPages {
			regions = finalizeRegion(regions, carry, cfg)
			carry = nil
		}

		classified := make([]ClassifiedLine, 0, len(page.Lines))
		for _, line := range page.Lines {
			cl := Classify(line, cfg)
			classified = append(classified, cl)
			stats.Lines++
			if cl.Candidate {
				stats.CandidateLines++
			}
		}

		var closed []CandidateRegion
		closed, carry = detectRegions(classified, carry, cfg)
		regions = append(regions, closed...)
	}
	regions = finalizeRegion(regions, carry, cfg)
	stats.Regions = len(regions)

	perPage := make(map[int]int)
	tables := make([]Table, 0, len(regions))
	for _, region := range regions {
		table, ok := Refine(region)
		if !ok {
			continue
		}
		perPage[table.Page]++
		table.Index = perPage[table.Page]
		tables = append(tables, table)
		stats.Tables++
		stats.Rows += len(table.Rows)
	}
	return tables, stats
}
