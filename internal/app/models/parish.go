package models

// Parish defines the parish model based on the 'parishes' table.
// Parishes are static reference data owned by the diocese.
type Parish struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name" example:"Giáo Xứ Thánh Giuse"`
	Description *string `json:"description,omitempty" db:"description"`
	Address     *string `json:"address,omitempty" db:"address"`
}
