// Package config fills configuration structs from environment variables with
// github.com/caarlos0/env/v11, after loading dotenv files with
// github.com/joho/godotenv.
//
//	type Config struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//		DB   pg.Config
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Configuration is loaded once at startup and handed to constructors by value.
package config
