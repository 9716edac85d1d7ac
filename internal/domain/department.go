package domain

// Department represents an academic department of the school.
type Department struct {
	ID       string
	Name     string
	Location string
	Phone    string
	Head     string
}

// IsNew reports whether the department has not been persisted yet.
func (d *Department) IsNew() bool {
	return d.ID == ""
}
