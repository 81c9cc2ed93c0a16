package config

type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment" env:"GO_ENV"`
	Version     string `yaml:"version"`
	ClientURL   string `yaml:"client_url"`

	StripeSecretKey     string `yaml:"stripe_secret_key" env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `yaml:"stripe_webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`

	// Notifier selects the notification backend: "smtp" or "redis"
	Notifier string `yaml:"notifier"`
}
