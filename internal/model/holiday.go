package model

// Holiday is a single extracted schedule entry: one named holiday in
// one year column of the source table.
//
// Design decision: We keep all three fields as strings rather than
// parsing Date into time.Time because the source page uses free-form
// date text ("January 1", "March 3 & 4") that does not parse reliably.
// The record set is append-only and duplicates are legal; encounter
// order is preserved end to end.
type Holiday struct {
	// Year is the header label of the column this entry came from.
	Year string `json:"year"`

	// Name is the normalized holiday name from the row's name cell.
	// Never empty for an extracted record.
	Name string `json:"name"`

	// Date is the normalized date text for this (holiday, year) pair.
	// May be empty when the source cell is blank.
	Date string `json:"date"`
}
