package domain

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Brand is the top-level catalog grouping.
type Brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Category belongs to exactly one Brand.
type Category struct {
	ID      int64  `json:"id"`
	BrandID int64  `json:"brand_id"`
	Name    string `json:"name"`
}

// Model is a catalog entry for a product. It is either public (category and
// brand set, owner unset) or personal (owner set, category and brand unset).
// Cross-entity links are held as ids, never as embedded pointers.
type Model struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CategoryID *int64 `json:"category_id,omitempty"`
	BrandID    *int64 `json:"brand_id,omitempty"`
	OwnerID    *int64 `json:"owner_id,omitempty"`
	ManualID   *int64 `json:"manual_id,omitempty"`
}

func (m *Model) IsPersonal() bool {
	return m.OwnerID != nil
}

func (m *Model) IsPublic() bool {
	return m.OwnerID == nil
}
