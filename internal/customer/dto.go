package customer

// CreateCustomerRequest payload of creation.
// swagger:model CreateCustomerRequest
type CreateCustomerRequest struct {
	TypeDocument   TypeDocument   `json:"typeDocument"   binding:"required,oneof=RUC DNI CE" example:"DNI"`
	NumberDocument string         `json:"numberDocument" binding:"required,max=100"          example:"12345678"`
	FirstName      string         `json:"firstName"      binding:"required,max=100"          example:"John"`
	LastName       string         `json:"lastName"       binding:"required,max=100"          example:"Doe"`
	Email          string         `json:"email"          binding:"required,email,max=255"    example:"john.doe@example.com"`
	Phone          string         `json:"phone"          binding:"omitempty,max=20"          example:"+51-555-123-4567"`
	Address        *Address       `json:"address"`
	IsActive       *bool          `json:"isActive"                                           example:"true"`
	DateOfBirth    string         `json:"dateOfBirth"    binding:"omitempty,datetime=2006-01-02" example:"1985-07-15"`
	Preferences    map[string]any `json:"preferences"`
	Notes          string         `json:"notes"                                              example:"VIP customer"`
}

// UpdateCustomerRequest payload of partial update; nil fields are left untouched.
// swagger:model UpdateCustomerRequest
type UpdateCustomerRequest struct {
	TypeDocument   *TypeDocument  `json:"typeDocument"   binding:"omitempty,oneof=RUC DNI CE"`
	NumberDocument *string        `json:"numberDocument" binding:"omitempty,max=100"`
	FirstName      *string        `json:"firstName"      binding:"omitempty,max=100"`
	LastName       *string        `json:"lastName"       binding:"omitempty,max=100"`
	Email          *string        `json:"email"          binding:"omitempty,email,max=255"`
	Phone          *string        `json:"phone"          binding:"omitempty,max=20"`
	Address        *Address       `json:"address"`
	IsActive       *bool          `json:"isActive"`
	DateOfBirth    *string        `json:"dateOfBirth"    binding:"omitempty,datetime=2006-01-02"`
	Preferences    map[string]any `json:"preferences"`
	Notes          *string        `json:"notes"`
}
