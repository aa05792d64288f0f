package main

import (
	"log"

	"github.com/spf13/viper"
)

// Config is the app configuration, read from config/config.yml.
type Config struct {
	App struct {
		Name    string
		Port    int
		Env     string
		Pepper  string
		HMACKey string
		CSRFKey string
		// AdminID names the one user with override rights on all posts.
		// The default points at id 1, the first account ever registered.
		AdminID int
	}
	Database struct {
		Dsn          string
		MaxIdleConns int
		MaxOpenConns int
	}
	Redis struct {
		Addr     string
		DB       int
		Password string
	}
	RabbitMQ struct {
		Url   string
		Queue string
	}
}

// IsProd reports whether we're running in production.
func (c *Config) IsProd() bool {
	return c.App.Env == "prod"
}

// LoadConfig reads the configuration file. In production the file is
// required and the app exits if it's missing; in development the defaults
// below are good enough to get going.
func LoadConfig(prod bool) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath("./config")

	c := defaultConfig()
	if err := viper.ReadInConfig(); err != nil {
		if prod {
			log.Fatalf("Error reading config file: %v", err)
		}
		log.Println("No config file found, using dev defaults.")
		return c
	}
	if err := viper.Unmarshal(c); err != nil {
		log.Fatalf("Unable to decode config into struct: %v", err)
	}
	if prod {
		c.App.Env = "prod"
	}
	return c
}

func defaultConfig() *Config {
	c := &Config{}
	c.App.Name = "travelblog"
	c.App.Port = 1111
	c.App.Env = "dev"
	c.App.Pepper = "secret-random-string"
	c.App.HMACKey = "secret-hmac-key"
	c.App.CSRFKey = "32-byte-long-auth-key-for-devs!!"
	c.App.AdminID = 1
	c.Database.Dsn = "host=localhost port=5432 user=postgres dbname=travel_blog sslmode=disable"
	c.Database.MaxIdleConns = 10
	c.Database.MaxOpenConns = 100
	return c
}
