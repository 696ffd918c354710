package ports

// Hasher abstracts the password hashing scheme.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}
