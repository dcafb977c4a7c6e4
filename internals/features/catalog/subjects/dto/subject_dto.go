package dto

// CreateSubjectRequest: admin menambah mapel baru ke katalog.
type CreateSubjectRequest struct {
	Name string  `json:"name" validate:"required,min=2,max=120"`
	Desc *string `json:"desc,omitempty"`
}

// UpdateSubjectRequest: partial update (nil = tidak diubah).
type UpdateSubjectRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Desc     *string `json:"desc,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}
