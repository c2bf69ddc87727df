package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env string `yaml:"app_env"`
		// debug | info | warn | error
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Stripe struct {
		// Secret API key (sk_...). Solo se usa para inicializar el SDK;
		// el webhook no hace llamadas salientes a Stripe.
		APIKey string `yaml:"api_key"`
		// Webhook signing secret (whsec_...).
		WebhookSecret string `yaml:"webhook_secret"`
	} `yaml:"stripe"`

	Codes struct {
		// restapi | sheetdb
		Backend string        `yaml:"backend"`
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"codes"`

	Email struct {
		// postmark | sendgrid | smtp
		Provider string `yaml:"provider"`
		// Remitente pre-verificado en el proveedor.
		From string `yaml:"from"`

		Postmark struct {
			ServerToken string `yaml:"server_token"`
		} `yaml:"postmark"`

		SendGrid struct {
			APIKey string `yaml:"api_key"`
		} `yaml:"sendgrid"`

		SMTP struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Username string `yaml:"username"`
			Password string `yaml:"password"`
			// auto | starttls | ssl | none
			TLS string `yaml:"tls"`
		} `yaml:"smtp"`
	} `yaml:"email"`
}

// Load lee config.yaml (opcional) y aplica overrides de entorno.
// Si path está vacío o el archivo no existe, arranca solo con defaults + env
// (deploy estilo Heroku: todo por variables de entorno).
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":4242"
	}
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Codes.Backend == "" {
		c.Codes.Backend = "restapi"
	}
	if c.Codes.Timeout == 0 {
		c.Codes.Timeout = 10 * time.Second
	}
	if c.Email.Provider == "" {
		c.Email.Provider = "postmark"
	}
	if c.Email.SMTP.Port == 0 {
		c.Email.SMTP.Port = 587
	}

	c.applyEnvOverrides()
	return &c, nil
}

// Validate chequea que la config alcance para arrancar el servicio.
// Falla temprano en vez de descubrir credenciales faltantes en el primer webhook.
func (c *Config) Validate() error {
	if c.Stripe.WebhookSecret == "" {
		return fmt.Errorf("config: stripe webhook secret is required (STRIPE_WEBHOOK_SECRET)")
	}
	if c.Codes.BaseURL == "" {
		return fmt.Errorf("config: codes store base url is required (CODES_BASE_URL)")
	}
	switch c.Codes.Backend {
	case "restapi", "sheetdb":
	default:
		return fmt.Errorf("config: unknown codes backend %q", c.Codes.Backend)
	}
	if c.Email.From == "" {
		return fmt.Errorf("config: sender address is required (POSTMARK_SENDER_EMAIL)")
	}
	switch c.Email.Provider {
	case "postmark":
		if c.Email.Postmark.ServerToken == "" {
			return fmt.Errorf("config: postmark server token is required (POSTMARK_API_TOKEN)")
		}
	case "sendgrid":
		if c.Email.SendGrid.APIKey == "" {
			return fmt.Errorf("config: sendgrid api key is required (SENDGRID_API_KEY)")
		}
	case "smtp":
		if c.Email.SMTP.Host == "" {
			return fmt.Errorf("config: smtp host is required (SMTP_HOST)")
		}
	default:
		return fmt.Errorf("config: unknown email provider %q", c.Email.Provider)
	}
	return nil
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
// Los nombres respetan los del deploy original (STRIPE_*, POSTMARK_*, PORT).
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.App.LogLevel = strings.ToLower(v)
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	// Heroku-style: PORT pisa todo
	if v, ok := getEnvInt("PORT"); ok {
		c.Server.Addr = ":" + strconv.Itoa(v)
	}

	// STRIPE
	if v, ok := getEnvStr("STRIPE_API_KEY"); ok {
		c.Stripe.APIKey = v
	}
	if v, ok := getEnvStr("STRIPE_WEBHOOK_SECRET"); ok {
		c.Stripe.WebhookSecret = v
	}

	// CODES
	if v, ok := getEnvStr("CODES_BACKEND"); ok {
		c.Codes.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvStr("CODES_BASE_URL"); ok {
		c.Codes.BaseURL = v
	}
	if d, ok := getEnvDur("CODES_TIMEOUT"); ok {
		c.Codes.Timeout = d
	}

	// EMAIL
	if v, ok := getEnvStr("EMAIL_PROVIDER"); ok {
		c.Email.Provider = strings.ToLower(v)
	}
	if v, ok := getEnvStr("EMAIL_FROM"); ok {
		c.Email.From = v
	}
	if v, ok := getEnvStr("POSTMARK_SENDER_EMAIL"); ok {
		c.Email.From = v
	}
	if v, ok := getEnvStr("POSTMARK_API_TOKEN"); ok {
		c.Email.Postmark.ServerToken = v
	}
	if v, ok := getEnvStr("SENDGRID_API_KEY"); ok {
		c.Email.SendGrid.APIKey = v
	}

	// SMTP
	if v, ok := getEnvStr("SMTP_HOST"); ok {
		c.Email.SMTP.Host = v
	}
	if v, ok := getEnvInt("SMTP_PORT"); ok {
		c.Email.SMTP.Port = v
	}
	if v, ok := getEnvStr("SMTP_USERNAME"); ok {
		c.Email.SMTP.Username = v
	}
	if v, ok := getEnvStr("SMTP_PASSWORD"); ok {
		c.Email.SMTP.Password = v
	}
	if v, ok := getEnvStr("SMTP_TLS"); ok {
		c.Email.SMTP.TLS = strings.ToLower(v) // auto|starttls|ssl|none
	}
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}
