package types

// Contact is one entry in the directory.
type Contact struct {
	ID       int    `json:"id"`       // Assigned by the store: max existing id + 1.
	Name     string `json:"name"`     // Required, non-empty.
	Email    string `json:"email"`    // Required, unique under case folding.
	Division string `json:"division"` // Required, free-form label.
}

// ContactHeader is row 1 of every contact table.
var ContactHeader = Row{"ID", "Name", "Email", "Division"}
