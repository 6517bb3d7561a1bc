package decisions

// Review file column headers shared by the review writer and the decision loader.
const (
	ColumnCandidate     = "Traveler Name"
	ColumnReference     = "Proposed Roster Match"
	ColumnScore         = "Similarity"
	ColumnFirstActivity = "First Activity"
	ColumnLastActivity  = "Last Activity"
	ColumnDepartments   = "Departments"
	ColumnDisposition   = "Correct? (Y/NR/NN)"
)

// dispositionAliases are accepted when the verdict header was shortened by hand.
var dispositionAliases = []string{ColumnDisposition, "Correct?", "Correct"}
