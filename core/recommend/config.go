package recommend

// Config defines orchestrator settings.
type Config struct {
	MaxRecommendations int `json:"max_recommendations"`
	Workers            int `json:"workers"`
}

// SetDefaults fills in defaults for unset fields.
func (c *Config) SetDefaults() {
	if c.MaxRecommendations <= 0 {
		c.MaxRecommendations = 5
	}
	if c.Workers <= 0 {
		c.Workers = 8
	}
}
