package config

import (
	"os"
	"sync"
)

type SendgridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

var (
	sendgridConfig *SendgridConfig
	sendgridOnce   sync.Once
)

func LoadSendgridConfig() *SendgridConfig {
	sendgridOnce.Do(func() {
		fromName := os.Getenv("SENDGRID_FROM_NAME")
		if fromName == "" {
			fromName = "HireFlow"
		}
		sendgridConfig = &SendgridConfig{
			APIKey:    os.Getenv("SENDGRID_API_KEY"),
			FromEmail: os.Getenv("SENDGRID_FROM_EMAIL"),
			FromName:  fromName,
		}
	})
	return sendgridConfig
}
