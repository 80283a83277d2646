package models

// TokenResponse is the body returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterRequest is the body sent to the registration endpoint.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	ShopName string `json:"shop_name,omitempty"`
}

// UserInfo is the body returned by the current-user endpoint.
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	ShopName string `json:"shop_name,omitempty"`
}
