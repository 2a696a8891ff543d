package checklist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zulandar/fleetyard/internal/models"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// ErrNoTemplate means no active checklist template exists for a vehicle class.
var ErrNoTemplate = errors.New("checklist: no template for vehicle class")

// TemplateFile is the YAML representation of a checklist template.
type TemplateFile struct {
	Name     string            `yaml:"name"`
	Class    string            `yaml:"class"`
	Version  int               `yaml:"version"`
	Sections []TemplateSection `yaml:"sections"`
}

// TemplateSection is a named group of checklist lines in a template file.
type TemplateSection struct {
	ID    string         `yaml:"id"`
	Name  string         `yaml:"name"`
	Items []TemplateItem `yaml:"items"`
}

// TemplateItem is one checklist line in a template file. Required defaults
// to true when omitted.
type TemplateItem struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Component   string `yaml:"component"`
	Required    *bool  `yaml:"required"`
}

// ParseTemplate unmarshals and validates a template YAML document.
func ParseTemplate(data []byte) (*TemplateFile, error) {
	var tf TemplateFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("checklist: parse template: %w", err)
	}
	if tf.Version == 0 {
		tf.Version = 1
	}
	var errs []string
	if tf.Name == "" {
		errs = append(errs, "name is required")
	}
	if tf.Class == "" {
		errs = append(errs, "class is required")
	}
	if len(tf.Sections) == 0 {
		errs = append(errs, "at least one section is required")
	}
	for i, sec := range tf.Sections {
		if sec.ID == "" {
			errs = append(errs, fmt.Sprintf("sections[%d].id is required", i))
		}
		if len(sec.Items) == 0 {
			errs = append(errs, fmt.Sprintf("sections[%d] has no items", i))
		}
		for j, it := range sec.Items {
			if it.Title == "" {
				errs = append(errs, fmt.Sprintf("sections[%d].items[%d].title is required", i, j))
			}
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("checklist: template validation failed: %s", strings.Join(errs, "; "))
	}
	return &tf, nil
}

// LoadTemplateFile reads and parses one template YAML file.
func LoadTemplateFile(path string) (*TemplateFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("checklist: read template %s: %w", path, err)
	}
	tf, err := ParseTemplate(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tf, nil
}

// LoadTemplatesDir parses every .yaml/.yml file in dir.
func LoadTemplatesDir(dir string) ([]*TemplateFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("checklist: read templates dir %s: %w", dir, err)
	}
	var files []*TemplateFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		tf, err := LoadTemplateFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, tf)
	}
	return files, nil
}

// SeedTemplate writes a template file into the store. An existing template
// with the same class and version is left untouched; a higher version
// deactivates older templates for the class.
func SeedTemplate(db *gorm.DB, tf *TemplateFile) (*models.ChecklistTemplate, error) {
	var existing models.ChecklistTemplate
	err := db.Where("class = ? AND version = ?", tf.Class, tf.Version).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checklist: check template %s v%d: %w", tf.Class, tf.Version, err)
	}

	tmplID, err := generateID("tpl")
	if err != nil {
		return nil, err
	}
	tmpl := models.ChecklistTemplate{
		ID:      tmplID,
		Name:    tf.Name,
		Class:   tf.Class,
		Version: tf.Version,
		Active:  true,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ChecklistTemplate{}).
			Where("class = ? AND version < ?", tf.Class, tf.Version).
			Update("active", false).Error; err != nil {
			return err
		}
		if err := tx.Create(&tmpl).Error; err != nil {
			return err
		}
		for si, sec := range tf.Sections {
			secID, err := generateID("sec")
			if err != nil {
				return err
			}
			row := models.TemplateSection{
				ID:         secID,
				TemplateID: tmpl.ID,
				SectionID:  sec.ID,
				Name:       sec.Name,
				Ordinal:    si,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			for ii, it := range sec.Items {
				itemID, err := generateID("ti")
				if err != nil {
					return err
				}
				required := true
				if it.Required != nil {
					required = *it.Required
				}
				itemRow := models.TemplateItem{
					ID:            itemID,
					SectionID:     row.ID,
					Ordinal:       ii,
					Title:         it.Title,
					Description:   it.Description,
					ComponentCode: it.Component,
					IsRequired:    required,
				}
				if err := tx.Create(&itemRow).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("checklist: seed template %s v%d: %w", tf.Class, tf.Version, err)
	}
	return &tmpl, nil
}

// TemplateForClass returns the active template with the highest version
// for a vehicle class, sections and items preloaded in ordinal order.
func TemplateForClass(db *gorm.DB, class string) (*models.ChecklistTemplate, error) {
	var tmpl models.ChecklistTemplate
	err := db.Where("class = ? AND active = ?", class, true).
		Order("version DESC").
		Preload("Sections", func(db *gorm.DB) *gorm.DB { return db.Order("ordinal ASC") }).
		Preload("Sections.Items", func(db *gorm.DB) *gorm.DB { return db.Order("ordinal ASC") }).
		First(&tmpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoTemplate, class)
		}
		return nil, fmt.Errorf("checklist: template for class %s: %w", class, err)
	}
	return &tmpl, nil
}
