package config

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"xhs_feishu_ops_v1/pkg/feishu"
)

// ==================== 配置结构 ====================

// Config 全局配置
// 优先级: 环境变量 (XHS_OPS_ 前缀) > configs/config.yaml > 默认值
// 注意: 用户凭证不走配置，凭证唯一来源是 credential_file 指向的 JSON 文件
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Feishu  FeishuConfig  `mapstructure:"feishu"`
	Scraper ScraperConfig `mapstructure:"scraper"`
	AI      AIConfig      `mapstructure:"ai"`
	Local   LocalConfig   `mapstructure:"local"`
	Batch   BatchConfig   `mapstructure:"batch"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port string `mapstructure:"port"`
	// PublicURL 对外可访问的服务地址，改写深链以此为前缀
	PublicURL string `mapstructure:"public_url"`
}

// FeishuConfig 飞书开放平台配置
type FeishuConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	AppID       string `mapstructure:"app_id"`
	AppSecret   string `mapstructure:"app_secret"`
	RedirectURI string `mapstructure:"redirect_uri"`
	AppToken    string `mapstructure:"app_token"` // 多维表格 app_token
	TableID     string `mapstructure:"table_id"`  // 笔记表 table_id
}

// ScraperConfig 第三方笔记抓取接口配置
type ScraperConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// AIConfig 生成式接口配置
type AIConfig struct {
	APIKey    string `mapstructure:"api_key"`
	TextModel string `mapstructure:"text_model"`
}

// LocalConfig 本地持久化配置
type LocalConfig struct {
	SQLitePath     string `mapstructure:"sqlite_path"`
	CredentialFile string `mapstructure:"credential_file"`
}

// BatchConfig 批处理配置
type BatchConfig struct {
	// ItemDelay 批量操作逐条之间的固定间隔，规避第三方限流
	ItemDelay time.Duration `mapstructure:"item_delay"`
}

// ==================== 加载 ====================

// Load 加载配置
// path: 配置文件目录，为空时默认 ./configs
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		path = "./configs"
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)

	v.SetEnvPrefix("XHS_OPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// 配置文件缺失允许继续，全部走环境变量 + 默认值
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		logrus.Warn("未找到配置文件，使用环境变量与默认值")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.public_url", "http://localhost:8080")
	v.SetDefault("feishu.base_url", feishu.DefaultBaseURL)
	v.SetDefault("ai.text_model", "gemini-2.0-flash")
	v.SetDefault("local.sqlite_path", "./data/notes.db")
	v.SetDefault("local.credential_file", "./data/feishu_credential.json")
	v.SetDefault("batch.item_delay", "300ms")
}
