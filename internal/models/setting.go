package models

// Setting is one key/value row of the settings surface (SMTP transport,
// site branding).
type Setting struct {
	Key   string `json:"key" gorm:"primaryKey"`
	Value string `json:"value" gorm:"type:text"`
}

// TableName specifies the table name for Setting
func (Setting) TableName() string {
	return "status_settings"
}
