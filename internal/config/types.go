package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Slack         SlackConfig
	Turso         TursoConfig
	Pins          PinConfig
	ProjectID     string
}
type SlackConfig struct {
	Token     string
	ChannelID string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// PinConfig holds the bcrypt hashes gating mutating endpoints.
type PinConfig struct {
	ScorerHash  string
	ManagerHash string
}
