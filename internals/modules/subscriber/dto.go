package subscriber

type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type SubscribeResponse struct {
	Status string `json:"status"`
}
