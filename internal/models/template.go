package models

import "time"

// ChecklistTemplate is a versioned checklist definition for one vehicle
// class. Templates are seeded from YAML files at db init and cloned into
// ChecklistItems when an inspection starts.
type ChecklistTemplate struct {
	ID        string `gorm:"primaryKey;size:32"`
	Name      string `gorm:"size:128;not null"`
	Class     string `gorm:"size:32;not null;index:idx_class_version"`
	Version   int    `gorm:"not null;default:1;index:idx_class_version"`
	Active    bool   `gorm:"default:true"`
	CreatedAt time.Time

	Sections []TemplateSection `gorm:"foreignKey:TemplateID"`
}

// TemplateSection groups template items (e.g. "brakes", "lighting").
type TemplateSection struct {
	ID         string `gorm:"primaryKey;size:32"`
	TemplateID string `gorm:"size:32;not null;index"`
	SectionID  string `gorm:"size:64;not null"`
	Name       string `gorm:"size:128;not null"`
	Ordinal    int    `gorm:"not null"`

	Items []TemplateItem `gorm:"foreignKey:SectionID;references:ID"`
}

// TemplateItem is one checklist line within a section.
type TemplateItem struct {
	ID            string `gorm:"primaryKey;size:32"`
	SectionID     string `gorm:"size:32;not null;index"`
	Ordinal       int    `gorm:"not null"`
	Title         string `gorm:"size:256;not null"`
	Description   string `gorm:"type:text"`
	ComponentCode string `gorm:"size:64"`
	IsRequired    bool   `gorm:"default:true"`
}
