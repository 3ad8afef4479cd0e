package domain

// User is an authenticated actor. Role gates which workflow transitions the
// user may perform.
type User struct {
	UserID       string `json:"userID"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	AuditFields
}
