package model

// AppConfig holds user-level application settings persisted between runs.
type AppConfig struct {
	RecentPlans      []string   `json:"recent_plans"`
	DefaultContainer Dimensions `json:"default_container"`
	LastExportDir    string     `json:"last_export_dir,omitempty"`
}

// DefaultAppConfig returns the configuration used when no config file exists.
// The default container matches the interior of a 40ft high-cube container.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		RecentPlans:      []string{},
		DefaultContainer: Dimensions{Length: 1203, Width: 235, Height: 269},
	}
}

// AddRecentPlan prepends path to the recent plans list, removing duplicates
// and keeping at most max entries.
func (c *AppConfig) AddRecentPlan(path string, max int) {
	recent := []string{path}
	for _, p := range c.RecentPlans {
		if p != path && len(recent) < max {
			recent = append(recent, p)
		}
	}
	c.RecentPlans = recent
}
