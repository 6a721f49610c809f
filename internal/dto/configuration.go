package dto

// SignatoryRequest updates the signature block printed under workload reports.
type SignatoryRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	Grade string `json:"grade" validate:"max=60"`
	City  string `json:"city" validate:"max=60"`
}
