package models

import (
	"github.com/lib/pq"
)

// User is an end-user account. Only the fields the chat subsystem reads are
// mapped here; the rest of the legacy user_master columns belong to the member
// module and are not this service's concern.
type User struct {
	UserID   uint   `gorm:"primaryKey" json:"user_id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

// TableName maps User onto the legacy master table.
func (User) TableName() string {
	return "user_master"
}

// Company is a seller account. Companies have no avatar column; their chat
// identity is the registered company name alone.
type Company struct {
	CompanyID   uint           `gorm:"primaryKey" json:"company_id"`
	CompanyName string         `json:"company_name"`
	VatNumber   string         `json:"vat_number"`
	Categories  pq.StringArray `gorm:"type:text[]" json:"categories"`
}

func (Company) TableName() string {
	return "company_master"
}

// Admin is a platform operator account. Admins never expose a personal
// identity in chat; they are displayed under a fixed platform label.
type Admin struct {
	AdminID  uint   `gorm:"primaryKey" json:"admin_id"`
	Username string `json:"username"`
}

func (Admin) TableName() string {
	return "admin_master"
}
