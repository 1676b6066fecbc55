package identity

// AuthRequest is the body of register and login requests.
type AuthRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned on a successful login.
type AuthResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	BestStage int    `json:"best_stage"`
	Token     string `json:"token"`
}
