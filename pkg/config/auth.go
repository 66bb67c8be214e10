package config

// AuthConfig holds verification settings for access tokens issued by the
// external identity provider. Authentication itself happens upstream; this
// service only verifies the token and reads the caller identity from it.
type AuthConfig struct {
	JwtSecret string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	Issuer    string `env:"JWT_ISSUER" env-default:"tailors-track"`
	Audience  string `env:"JWT_AUDIENCE" env-default:"tailors-track"`
}

// WebhookConfig holds the shared secret used to verify account provisioning
// webhooks from the identity provider. With no secret configured every event
// is rejected; AllowUnsigned opts into accepting unsigned events and is meant
// for local development only.
type WebhookConfig struct {
	SigningSecret string `env:"ACCOUNT_WEBHOOK_SECRET" env-default:""`
	AllowUnsigned bool   `env:"ACCOUNT_WEBHOOK_ALLOW_UNSIGNED" env-default:"false"`
}
