package domain

// Profile is the body returned by the authenticated /me endpoint.
type Profile struct {
	ID            string   `json:"id"`
	Username      string   `json:"username"`
	Name          string   `json:"name"`
	Surname       string   `json:"surname"`
	Email         string   `json:"email"`
	Subscriptions []string `json:"subscriptions"`
	Filters       []string `json:"filters"`
}

// Credentials is what the login endpoint hands back.
type Credentials struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	Username    string `json:"username,omitempty"`
}

// Registration carries the sign-up form. ConfirmPassword never leaves the client.
type Registration struct {
	Username        string `json:"username" validate:"required"`
	Name            string `json:"name" validate:"required"`
	Surname         string `json:"surname" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"-" validate:"required,eqfield=Password"`
}

// ContactMessage is the public contact form.
type ContactMessage struct {
	Name    string `json:"name" validate:"required"`
	Mail    string `json:"mail" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}
