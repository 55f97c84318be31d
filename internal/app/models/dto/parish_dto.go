package dto

// CreateParishRequest represents the payload for creating a parish
type CreateParishRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
	Address     *string `json:"address,omitempty"`
}

// UpdateParishRequest represents a partial parish update
type UpdateParishRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Address     *string `json:"address,omitempty"`
}
