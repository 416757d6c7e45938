package tasks

// Note: neither request carries an owner field. Ownership always comes
// from the verified request identity.

type CreateTaskRequest struct {
	Title     string `json:"title" validate:"required,max=255"`
	Completed bool   `json:"completed"`
}

type UpdateTaskRequest struct {
	Title     *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Completed *bool   `json:"completed,omitempty"`
}

type DeleteTaskResponse struct {
	Message string `json:"message"`
}
