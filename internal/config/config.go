package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the orders API.
type Config struct {
	AppName string
	AppEnv  string
	AppPort string

	// OrdersRoot is the directory holding one sub-directory per order.
	OrdersRoot string
	// ReportPath is the JSON activity log.
	ReportPath string
	// DailyReportPath is the xlsx mirror of the activity log.
	DailyReportPath string
	// UserStorePath is the xlsx credential table.
	UserStorePath string
	// ModelDetailsCSV / ModelDetailsJSON are the monument catalog source and
	// its JSON mirror.
	ModelDetailsCSV  string
	ModelDetailsJSON string

	JWTSecret       string
	SharedPasswords []string

	MailjetAPIKeyPublic  string
	MailjetAPIKeyPrivate string
	MailFromEmail        string

	RecipientsCemetery  []string
	RecipientsEngraving []string
	RecipientsSetting   []string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("HW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Headstone World Orders API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "3001")
	v.SetDefault("orders.root", "jobs/2024")
	v.SetDefault("report.path", "report.json")
	v.SetDefault("daily_report.path", "dailyreport.xlsx")
	v.SetDefault("user_store.path", "userData.xlsx")
	v.SetDefault("model_details.csv", "data/model-details.csv")
	v.SetDefault("model_details.json", "data/model_details.json")

	cfg := Config{
		AppName:              v.GetString("app.name"),
		AppEnv:               v.GetString("app.env"),
		AppPort:              v.GetString("app.port"),
		OrdersRoot:           v.GetString("orders.root"),
		ReportPath:           v.GetString("report.path"),
		DailyReportPath:      v.GetString("daily_report.path"),
		UserStorePath:        v.GetString("user_store.path"),
		ModelDetailsCSV:      v.GetString("model_details.csv"),
		ModelDetailsJSON:     v.GetString("model_details.json"),
		JWTSecret:            v.GetString("jwt.secret"),
		SharedPasswords:      splitList(v.GetString("shared_passwords")),
		MailjetAPIKeyPublic:  v.GetString("mj.apikey_public"),
		MailjetAPIKeyPrivate: v.GetString("mj.apikey_private"),
		MailFromEmail:        v.GetString("mail.from"),
		RecipientsCemetery:   splitList(v.GetString("recipients.cemetery")),
		RecipientsEngraving:  splitList(v.GetString("recipients.engraving")),
		RecipientsSetting:    splitList(v.GetString("recipients.setting")),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}
	if cfg.OrdersRoot == "" {
		return Config{}, fmt.Errorf("orders root must be provided")
	}

	return cfg, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
