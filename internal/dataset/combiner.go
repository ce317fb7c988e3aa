package dataset

// Combine concatenates normalized rows across files in upload order.
// Every record already carries its source file, so provenance survives the
// merge; there is no cross-file deduplication.
func Combine(results []*FileResult) Dataset {
	total := 0
	for _, r := range results {
		total += len(r.Records)
	}

	ds := make(Dataset, 0, total)
	for _, r := range results {
		ds = append(ds, r.Records...)
	}
	return ds
}
