package types

// TemplateType identifies one of the externally defined template page kinds.
// The File field matches the templateFile stored on template-instance pages
// and selects the notification extraction rule applied to the page content.
type TemplateType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	File string `json:"file"`
	Icon string `json:"icon"`
}

var TemplateTypes = []TemplateType{
	{ID: 1, Name: "pro_tracker", File: "tracker.html", Icon: "🎒"},
	{ID: 2, Name: "template_dashboard", File: "dashboard.html", Icon: "🎓"},
	{ID: 3, Name: "shopping_cart", File: "shopping-cart.html", Icon: "🛒"},
}

func GetTemplateTypeByFile(file string) *TemplateType {
	for i := range TemplateTypes {
		if TemplateTypes[i].File == file {
			return &TemplateTypes[i]
		}
	}
	return nil
}

func GetTemplateTypeByName(name string) *TemplateType {
	for i := range TemplateTypes {
		if TemplateTypes[i].Name == name {
			return &TemplateTypes[i]
		}
	}
	return nil
}
