// Package config 负责加载和管理应用程序的配置
// 使用 viper 库支持 YAML 配置文件和环境变量覆盖
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config 是应用程序的根配置结构
// 在 main 中加载一次后只读，显式传递给需要它的组件
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // 服务器配置
	Database DatabaseConfig `mapstructure:"database"` // 数据库配置
	Auth     AuthConfig     `mapstructure:"auth"`     // 认证配置
}

// ServerConfig 服务器相关配置
type ServerConfig struct {
	Port      int    `mapstructure:"port"`       // 监听端口，默认 8080
	Mode      string `mapstructure:"mode"`       // 运行模式: debug / release
	RateLimit string `mapstructure:"rate_limit"` // 限流配置，格式 "次数/单位"，如 "10/minute"
	CORS      string `mapstructure:"cors"`       // CORS 允许的域名，逗号分隔，默认 "*"
}

// CORSOrigins 将逗号分隔的 CORS 配置解析为来源列表
func (c ServerConfig) CORSOrigins() []string {
	parts := strings.Split(c.CORS, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// DatabaseConfig 数据库连接配置
type DatabaseConfig struct {
	URL          string `mapstructure:"url"`            // 数据库连接 URL (DSN)
	MaxIdleConns int    `mapstructure:"max_idle_conns"` // 最大空闲连接数
	MaxOpenConns int    `mapstructure:"max_open_conns"` // 最大打开连接数
	MaxLifetime  int    `mapstructure:"max_lifetime"`   // 连接最大生命周期（秒）
}

// AuthConfig 认证配置
type AuthConfig struct {
	APIKey string `mapstructure:"api_key"` // 静态 API Key，所有接口共用
}

// 配置加载相关错误
var (
	ErrMissingDatabaseURL = errors.New("database url is required")
	ErrMissingAPIKey      = errors.New("api key is required")
)

// Load 从指定路径加载配置文件
// 支持环境变量覆盖配置项
// 参数:
//   - configPath: 配置文件目录路径 (如 "./configs")
//
// 返回:
//   - *Config: 配置对象
//   - error: 如果加载失败或缺少必填项则返回错误
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// 设置配置文件
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	// 启用环境变量
	v.AutomaticEnv()
	// 将环境变量中的 _ 映射到配置的 .
	// 例如: SERVER_PORT -> server.port
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 绑定环境变量
	bindEnvVariables(v)

	// 设置默认值（当配置文件中未指定时使用）
	setDefaults(v)

	// 读取配置文件（如果不存在则使用默认值和环境变量）
	if err := v.ReadInConfig(); err != nil {
		// 如果配置文件不存在，继续使用默认值和环境变量
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// 将配置解析到结构体
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// 校验必填项，启动时直接失败，避免请求期才暴露
	if cfg.Database.URL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.Auth.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	return &cfg, nil
}

// bindEnvVariables 绑定环境变量到配置项
func bindEnvVariables(v *viper.Viper) {
	// 服务器配置
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.rate_limit", "RATE_LIMIT")
	v.BindEnv("server.cors", "CORS_ALLOW_ORIGINS")

	// 数据库配置
	v.BindEnv("database.url", "DATABASE_URL")

	// 认证配置
	v.BindEnv("auth.api_key", "API_KEY")
}

// setDefaults 设置配置项的默认值
// 当配置文件中没有指定某个值时，将使用这里设置的默认值
func setDefaults(v *viper.Viper) {
	// 服务器默认配置
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.rate_limit", "10/minute")
	v.SetDefault("server.cors", "*")

	// 数据库默认配置
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.max_lifetime", 3600)
}
