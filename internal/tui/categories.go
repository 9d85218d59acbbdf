package tui

// Category is one entry of the configuration menu
type Category struct {
	ID          string
	Name        string
	Description string
}

var Categories = []Category{
	{ID: "github", Name: "GitHub", Description: "API endpoint, timeout and retries"},
	{ID: "clone", Name: "Clones", Description: "Where isolated local clones are created"},
	{ID: "output", Name: "Output", Description: "Report format and destination"},
	{ID: "plugins", Name: "Plugins", Description: "Extractors run by default"},
	{ID: "logging", Name: "Logging", Description: "Log level and format"},
}

func GetCategoryByID(id string) *Category {
	for i := range Categories {
		if Categories[i].ID == id {
			return &Categories[i]
		}
	}
	return nil
}

func GetCategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = c.Name
	}
	return names
}
