package domain

// SubjectType distinguishes the actor kinds interacting with the service.
type SubjectType string

const (
	SubjectTypeCustomer SubjectType = "CUSTOMER"
	SubjectTypeAdmin    SubjectType = "ADMIN"
	SubjectTypeGuest    SubjectType = "GUEST"
)
