package config

import (
	"fmt"
	"strings"
	"time"

	"hexdefense-server/internal/engine"
	"hexdefense-server/internal/scenario"

	"github.com/spf13/viper"
)

// EnvPrefix - префикс переменных окружения: HEXSIM_SERVER_PORT, HEXSIM_SIM_TICKRATE...
const EnvPrefix = "HEXSIM"

// ServerConfig - HTTP/WebSocket.
type ServerConfig struct {
	Port string `json:"port" mapstructure:"port"`
}

// SimConfig - параметры драйвера тиков.
type SimConfig struct {
	TickRate     time.Duration `json:"tickRate" mapstructure:"tickRate"`
	MaxTicks     uint64        `json:"maxTicks" mapstructure:"maxTicks"`
	StopWhenDone bool          `json:"stopWhenDone" mapstructure:"stopWhenDone"`
}

// LogConfig - уровень и формат logrus.
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

// Config - вся конфигурация сервера.
type Config struct {
	Server   ServerConfig      `json:"server" mapstructure:"server"`
	Sim      SimConfig         `json:"sim" mapstructure:"sim"`
	Log      LogConfig         `json:"log" mapstructure:"log"`
	Scenario scenario.Scenario `json:"scenario" mapstructure:"scenario"`
}

// Engine переводит настройки в конфиг драйвера.
func (c Config) Engine() engine.Config {
	cfg := engine.NewConfig()
	if c.Sim.TickRate > 0 {
		cfg.TickRate = c.Sim.TickRate
	}
	cfg.MaxTicks = c.Sim.MaxTicks
	cfg.StopWhenDone = c.Sim.StopWhenDone
	return cfg
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")

	viper.SetDefault("sim.tickRate", "100ms")
	viper.SetDefault("sim.maxTicks", 0)
	viper.SetDefault("sim.stopWhenDone", false)

	// Пустые значения: остаются LOG_LEVEL/LOG_FORMAT, прочитанные logger.Init.
	// Ключи всё равно регистрируем, иначе HEXSIM_LOG_* не попадут в Unmarshal.
	viper.SetDefault("log.level", "")
	viper.SetDefault("log.format", "")
}

// Load читает конфиг из файла path (JSON, YAML или TOML по расширению)
// и применяет переменные окружения поверх. Пустой path - только
// значения по умолчанию и окружение.
// Если в файле нет ни башен, ни волн, берётся scenario.Default().
func Load(path string) (*Config, error) {
	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	if len(cfg.Scenario.Towers) == 0 && len(cfg.Scenario.Waves) == 0 {
		cfg.Scenario = scenario.Default()
	}
	if err := cfg.Scenario.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}

	return &cfg, nil
}
