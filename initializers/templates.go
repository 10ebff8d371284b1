package initializers

import (
	"os"

	"focusly-api/types"

	"gopkg.in/yaml.v3"
)

type templateCatalogConfig struct {
	Templates []struct {
		ID   int    `yaml:"id"`
		Name string `yaml:"name"`
		File string `yaml:"file"`
		Icon string `yaml:"icon"`
	} `yaml:"templates"`
}

// InitTemplates optionally replaces the built-in template catalog from
// TEMPLATES_CONFIG (default config/templates.yaml). A missing file keeps the
// compiled-in defaults; a malformed file is an error so deploys fail loudly.
func InitTemplates() error {
	path := os.Getenv("TEMPLATES_CONFIG")
	if path == "" {
		path = "config/templates.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var cfg templateCatalogConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	if len(cfg.Templates) == 0 {
		return nil
	}
	catalog := make([]types.TemplateType, 0, len(cfg.Templates))
	for _, t := range cfg.Templates {
		catalog = append(catalog, types.TemplateType{
			ID:   t.ID,
			Name: t.Name,
			File: t.File,
			Icon: t.Icon,
		})
	}
	types.TemplateTypes = catalog
	return nil
}
