package request

import (
	"regexp"
	"strings"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// ServiceRequest is a citizen service-request record. ID is assigned by the
// remote store and is empty on a draft that has not been persisted yet.
type ServiceRequest struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	ServiceType string `json:"service_type"`
	Status      Status `json:"status"`
}

var (
	emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phoneRe = regexp.MustCompile(`^\d{7,15}$`)
)

type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// Validate checks the draft's fields in a fixed order and returns the first
// failure. A draft that passes is safe to send to the remote store.
func (r ServiceRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ValidationError("Name is required")
	}
	if !emailRe.MatchString(r.Email) {
		return ValidationError("Valid email required")
	}
	if r.Phone != "" && !phoneRe.MatchString(r.Phone) {
		return ValidationError("Phone must be 7–15 digits")
	}
	if strings.TrimSpace(r.ServiceType) == "" {
		return ValidationError("Service type is required")
	}
	return nil
}

// EmptyDraft is the template a new record starts from.
func EmptyDraft() ServiceRequest {
	return ServiceRequest{Status: StatusPending}
}
