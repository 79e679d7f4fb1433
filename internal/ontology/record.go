package ontology

// ServiceRecord is a known service in the icon ontology.
type ServiceRecord struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Category    string `json:"category" yaml:"-"`
	IconPath    string `json:"iconPath" yaml:"icon"`
	Description string `json:"description,omitempty" yaml:"description"`
}

// ResourceTypeMapping links a canonical resource type (e.g. Microsoft.Web/sites)
// to an icon title plus the metadata used for snippet generation.
type ResourceTypeMapping struct {
	ResourceType       string   `json:"resourceType" yaml:"resourceType"`
	IconTitle          string   `json:"iconTitle" yaml:"iconTitle"`
	APIVersion         string   `json:"apiVersion,omitempty" yaml:"apiVersion"`
	TerraformType      string   `json:"terraformType,omitempty" yaml:"terraformType"`
	RequiredProperties []string `json:"requiredProperties,omitempty" yaml:"requiredProperties"`
	OptionalProperties []string `json:"optionalProperties,omitempty" yaml:"optionalProperties"`
}

// Category is one section of the ontology index: a category name and the
// icon titles filed under it, in catalog order.
type Category struct {
	Name   string   `json:"name"`
	Titles []string `json:"titles"`
}
