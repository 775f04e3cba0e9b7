package customer

// Credentials is the login record associated with one customer, keyed by
// customer ID. The core only persists and looks these up; login flows live
// outside this module.
type Credentials struct {
	CustomerID string `json:"customer_id"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Email      string `json:"email"`
	Active     bool   `json:"active"`
}

// NewCredentials creates an active credentials record.
func NewCredentials(customerID, username, password, email string) *Credentials {
	return &Credentials{
		CustomerID: customerID,
		Username:   username,
		Password:   password,
		Email:      email,
		Active:     true,
	}
}

// VerifyPassword reports whether the input matches the stored password.
func (c *Credentials) VerifyPassword(input string) bool {
	return c.Password == input
}
