package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Profile is a named set of restricted app and category identifiers owned
// by one user. The stored lists are configuration only; the enforced
// ("live") lists are projected from them by the restriction resolver and
// are empty unless the profile has an active blocking session.
type Profile struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name                 string         `gorm:"size:255;not null" json:"name"`
	Icon                 string         `gorm:"size:100" json:"icon"`
	RestrictedApps       datatypes.JSON `gorm:"type:jsonb" json:"restricted_apps"`
	RestrictedCategories datatypes.JSON `gorm:"type:jsonb" json:"restricted_categories"`
	IsDefault            bool           `gorm:"default:false" json:"is_default"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// AppList decodes the stored restricted app identifiers.
func (p *Profile) AppList() []string {
	return decodeList(p.RestrictedApps)
}

// CategoryList decodes the stored restricted category identifiers.
func (p *Profile) CategoryList() []string {
	return decodeList(p.RestrictedCategories)
}

func (p *Profile) SetAppList(apps []string) {
	p.RestrictedApps = encodeList(apps)
}

func (p *Profile) SetCategoryList(categories []string) {
	p.RestrictedCategories = encodeList(categories)
}

func decodeList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil || list == nil {
		return []string{}
	}
	return list
}

func encodeList(list []string) datatypes.JSON {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}
