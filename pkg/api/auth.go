package api

// Account is the public view of a registered account.
type Account struct {
	Address     string `json:"address"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	Account *Account `json:"account"`
	Token   string   `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Account *Account `json:"account"`
	Token   string   `json:"token"`
}

type GetCurrentAccountRequest struct{}

type GetCurrentAccountResponse struct {
	Account *Account `json:"account"`
}
