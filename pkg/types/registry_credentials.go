package types

// RegistryCredentials holds basic auth credentials.
type RegistryCredentials struct {
	Username string `json:"username"` // Registry username.
	Password string `json:"password"` // Registry token or password.
}

// IsEmpty reports whether no username was configured.
func (c *RegistryCredentials) IsEmpty() bool {
	return c == nil || c.Username == ""
}
