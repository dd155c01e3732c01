// Package status is the flag a view shows for an outbound fetch.
package status

type Status string

// The loading state is the page's HTMX placeholder, shown while the
// fragment that carries one of these is requested.
const (
	Idle    Status = "idle"
	Error   Status = "error"
	Success Status = "success"
)

// Of maps a finished fetch to its flag.
func Of(err error) Status {
	if err != nil {
		return Error
	}
	return Success
}
