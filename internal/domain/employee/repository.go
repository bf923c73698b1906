package employee

import "context"

// Directory is the employee directory collaborator boundary.
type Directory interface {
	// Exists reports whether the employee is known to the directory.
	Exists(ctx context.Context, id string) (bool, error)

	// Get retrieves an employee, ErrEmployeeNotFound if absent.
	Get(ctx context.Context, id string) (Employee, error)
}
