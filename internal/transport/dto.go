package transport

import "github.com/google/uuid"

type RegisterRequest struct {
	Name     string `json:"name"      validate:"required,min=3,max=50"`
	Year     int    `json:"year"      validate:"required,gte=1900,notfuture"`
	Phone    string `json:"phone"     validate:"required,phone"`
	Email    string `json:"email"     validate:"required,email"`
	RegionID uint   `json:"region_id" validate:"required,gt=0"`
	Password string `json:"password"  validate:"required,min=8,max=128"`
	Image    string `json:"image"     validate:"omitempty,url"`
	Role     string `json:"role"      validate:"omitempty,oneof=seller user"`
}

type LoginRequest struct {
	Name     string `json:"name"     validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
}

type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,phone"`
}

type SendOTPResponse struct {
	Message string `json:"message"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp"   validate:"required,len=6,numeric"`
}

type VerifyOTPResponse struct {
	Verified bool `json:"verified"`
}

// UpdateUserRequest is a partial update. Role changes are honoured for admins only.
type UpdateUserRequest struct {
	Name     *string `json:"name"      validate:"omitempty,min=3,max=50"`
	Year     *int    `json:"year"      validate:"omitempty,gte=1900,notfuture"`
	Phone    *string `json:"phone"     validate:"omitempty,phone"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	RegionID *uint   `json:"region_id" validate:"omitempty,gt=0"`
	Password *string `json:"password"  validate:"omitempty,min=8,max=128"`
	Image    *string `json:"image"     validate:"omitempty,url"`
	Role     *string `json:"role"      validate:"omitempty,oneof=seller user admin superadmin"`
}

func (r UpdateUserRequest) Empty() bool {
	return r.Name == nil && r.Year == nil && r.Phone == nil && r.Email == nil &&
		r.RegionID == nil && r.Password == nil && r.Image == nil && r.Role == nil
}

type CreateProductRequest struct {
	Name        string `json:"name"        validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"required,min=10,max=500"`
	Price       *int64 `json:"price"       validate:"required,gte=0"`
	Image       string `json:"image"       validate:"required,url"`
	CategoryID  uint   `json:"category_id" validate:"required,gt=0"`
}

type PatchProductRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=3,max=100"`
	Description *string `json:"description" validate:"omitempty,min=10,max=500"`
	Price       *int64  `json:"price"       validate:"omitempty,gte=0"`
	Image       *string `json:"image"       validate:"omitempty,url"`
	CategoryID  *uint   `json:"category_id" validate:"omitempty,gt=0"`
}

func (r PatchProductRequest) Empty() bool {
	return r.Name == nil && r.Description == nil && r.Price == nil && r.Image == nil && r.CategoryID == nil
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=3,max=50"`
}

type PatchCategoryRequest struct {
	Name *string `json:"name" validate:"omitempty,min=3,max=50"`
}

type RegionRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

type PatchRegionRequest struct {
	Name *string `json:"name" validate:"omitempty,min=2,max=100"`
}

type CreateCommentRequest struct {
	Message   string    `json:"message"    validate:"required,min=3,max=500"`
	Star      int       `json:"star"       validate:"required,min=1,max=5"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type PatchCommentRequest struct {
	Message *string `json:"message" validate:"omitempty,min=3,max=500"`
	Star    *int    `json:"star"    validate:"omitempty,min=1,max=5"`
}

func (r PatchCommentRequest) Empty() bool {
	return r.Message == nil && r.Star == nil
}

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Count     int       `json:"count"      validate:"required,min=1"`
}

type OrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

type SearchResponse[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
