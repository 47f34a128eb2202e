// Package config loads and validates the matrix server's configuration
// with a viper-plus-validator stack: viper for the YAML source and
// go-playground/validator (with the en locale translator) to turn struct
// tag violations into readable errors instead of a raw field-path dump.
package config

import (
	"fmt"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/spf13/viper"
)

// MatrixServerConfig is the ambient knobs the query engine reads at start-up:
// nothing the core matrix engine itself needs, since that package takes no
// config at all, only the binaries that wire it up.
type MatrixServerConfig struct {
	GraphPath      string `mapstructure:"graph_path" validate:"required"`
	CellStorePath  string `mapstructure:"cell_store_path" validate:"required"`
	WorkerPoolSize int    `mapstructure:"worker_pool_size" validate:"required,min=1"`
	LogDebug       bool   `mapstructure:"log_debug"`
	MaximalLevel   uint8  `mapstructure:"maximal_level"`
}

// Load reads config.yaml from configPath and validates it.
func Load(configPath string) (MatrixServerConfig, error) {
	viper.SetConfigName("config")
	viper.AddConfigPath(configPath)

	var cfg MatrixServerConfig
	if err := viper.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("fatal error config file: %w", err)
	}
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validate(cfg MatrixServerConfig) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(v, trans)

		var messages []string
		for _, fe := range err.(validator.ValidationErrors) {
			messages = append(messages, fe.Translate(trans))
		}
		return fmt.Errorf("invalid config: %v", messages)
	}
	return nil
}
