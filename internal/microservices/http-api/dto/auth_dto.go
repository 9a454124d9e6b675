package dto

// Data Transfer Objects for the confirmation code handshake

// CodeRequest: payload asking for a confirmation code
type CodeRequest struct {
	Email string `json:"email" binding:"required,email,max=254"`
}

// CodeResponse: echoed back whether or not the email was already known
type CodeResponse struct {
	Email string `json:"email"`
}

// TokenRequest: payload exchanging a confirmation code for an access token
type TokenRequest struct {
	Email            string `json:"email" binding:"required,email,max=254"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// TokenResponse: response payload after a successful exchange
type TokenResponse struct {
	Token string `json:"token"`
}
