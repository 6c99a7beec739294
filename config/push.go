package config

import "time"

// FirebaseWebConfig is the public Firebase web configuration handed to the browser.
// None of these values are secrets; they identify the project to the FCM SDK.
type FirebaseWebConfig struct {
	APIKey            string `env:"API_KEY"             json:"apiKey"`
	AuthDomain        string `env:"AUTH_DOMAIN"         json:"authDomain"`
	ProjectID         string `env:"PROJECT_ID"          json:"projectId"`
	StorageBucket     string `env:"STORAGE_BUCKET"      json:"storageBucket"`
	MessagingSenderID string `env:"MESSAGING_SENDER_ID" json:"messagingSenderId"`
	AppID             string `env:"APP_ID"              json:"appId"`
}

// PushConfig controls the notification token lifecycle.
type PushConfig struct {
	Enabled bool `env:"PUSH_ENABLED" envDefault:"true"`

	// RetryDelay is the fixed delay before retrying after any lifecycle failure.
	RetryDelay time.Duration `env:"PUSH_RETRY_DELAY" envDefault:"5s"`

	// RefreshInterval is how often a registered token is re-validated.
	RefreshInterval time.Duration `env:"PUSH_REFRESH_INTERVAL" envDefault:"1h"`

	// VAPIDKey is the web push certificate key pair public key.
	VAPIDKey string `env:"FIREBASE_VAPID_KEY"`

	Firebase FirebaseWebConfig `envPrefix:"FIREBASE_"`
}

// Sanitize applies guardrails to push configuration values.
func (p *PushConfig) Sanitize() {
	if p.RetryDelay <= 0 {
		p.RetryDelay = 5 * time.Second
	}
	if p.RefreshInterval < time.Minute {
		p.RefreshInterval = time.Minute
	}
}
