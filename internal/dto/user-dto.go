package dto

type UserDTO struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
}

// User creation is OTP-gated: the owner's OTP travels with the payload.
type CreateUserDTO struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=officer admin superadmin"`
	OTP      string `json:"otp" validate:"required"`
	Purpose  string `json:"purpose" validate:"required"`
}

type DeleteUserDTO struct {
	OTP     string `json:"otp" validate:"required"`
	Purpose string `json:"purpose" validate:"required"`
}

type UpdateUserRoleDTO struct {
	Role string `json:"role" validate:"required,oneof=officer admin superadmin"`
}

type UpdateUserActiveDTO struct {
	IsActive bool `json:"isActive"`
}

type UpdateUserPasswordDTO struct {
	Password string `json:"password" validate:"required,min=6"`
}
