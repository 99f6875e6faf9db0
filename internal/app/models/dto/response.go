package dto

// MessageResponse is the body of a successful delete
type MessageResponse struct {
	Message string `json:"message" example:"Book with id 1 deleted"`
}
