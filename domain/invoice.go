package domain

// Invoice is everything needed to print a bill for a stored sale. Customer
// is nil for walk-in sales.
type Invoice struct {
	Sale     Sale      `json:"sale"`
	Customer *Customer `json:"customer,omitempty"`
}
