package dto

// DepartmentRequest payload for creating a department.
type DepartmentRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Phone    string `json:"phone"`
	Head     string `json:"head"`
}

// DepartmentResponse representation.
type DepartmentResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Phone    string `json:"phone"`
	Head     string `json:"head"`
}
