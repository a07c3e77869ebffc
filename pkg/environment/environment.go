package environment

// Environment identifies the deployment environment the service runs in.
// It drives behavior that must differ between local development and a real
// deployment: cookie security attributes, log format, and log level.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Config is loaded from the APP_ENV variable.
type Config struct {
	Environment Environment `env:"APP_ENV" envDefault:"development"`
}

// IsProduction reports whether e is the production environment.
// Staging intentionally counts as production for security-sensitive
// toggles (secure cookies, cross-site policy).
func (e Environment) IsProduction() bool {
	return e == Production || e == Staging
}

// Valid reports whether e is one of the recognized environments.
func (e Environment) Valid() bool {
	switch e {
	case Development, Staging, Production:
		return true
	}
	return false
}
