// Package extract turns the raw holiday schedule page into Holiday
// records.
//
// The extractor reads year labels from the table header, walks the
// body rows, and pairs each row's data cells with the year labels by
// position. Malformed markup is never an error: rows without a name
// element are skipped and rows with missing cells simply contribute
// fewer records, because the source page's markup is not contractually
// stable and partial mismatches must degrade gracefully.
package extract
