package models

// Admin is an operator account. Documents are keyed by email.
type Admin struct {
	Email        string `bson:"_id"`
	PasswordHash string `bson:"passwordHash"`
}
