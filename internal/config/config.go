package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Fixture struct {
		URL      string `env:"URL" envDefault:"http://localhost:8080/shifts.json"`
		Timeout  int    `env:"TIMEOUT" envDefault:"10"`
		Timezone string `env:"TIMEZONE" envDefault:"Local"` // 不带时区的时间戳按此时区解析
		CacheKey string `env:"CACHE_KEY" envDefault:"shift_board:fixture"`
	} `envPrefix:"FIXTURE_"`
	Schedule struct {
		DemoAnchor        string `env:"DEMO_ANCHOR" envDefault:"2025-11-17"` // 取值 today 时使用当前日期
		TemplateStartHour int    `env:"TEMPLATE_START_HOUR" envDefault:"8"`
	} `envPrefix:"SCHEDULE_"`
	Redis struct {
		Enabled        bool   `env:"ENABLED" envDefault:"false"`
		Host           string `env:"HOST" envDefault:"localhost"`
		Port           int    `env:"PORT" envDefault:"6379"`
		Password       string `env:"PASSWORD"`
		DB             int    `env:"DB" envDefault:"0"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		FixtureTTL     int    `env:"FIXTURE_TTL" envDefault:"300"`
	} `envPrefix:"REDIS_"`
	RabbitMQ struct {
		DSN            string `env:"DSN"` // 为空时不发布排班事件
		Queue          string `env:"QUEUE" envDefault:"shift_board_events"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Email struct {
		SMTP struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RateLimit struct {
		Enabled bool    `env:"ENABLED" envDefault:"true"`
		RPS     float64 `env:"RPS" envDefault:"10"`
		Burst   int     `env:"BURST" envDefault:"20"`
	} `envPrefix:"RATE_LIMIT_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok && len(aggErr.Errors) > 0 {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if cfg.Schedule.TemplateStartHour < 0 || cfg.Schedule.TemplateStartHour > 23 {
		return nil, fmt.Errorf("SCHEDULE_TEMPLATE_START_HOUR 必须在 0 到 23 之间: %d", cfg.Schedule.TemplateStartHour)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	if _, err := cfg.DemoAnchor(time.UTC); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location 返回解析 fixture 时间戳所用的时区
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Fixture.Timezone)
	if err != nil {
		return nil, fmt.Errorf("无效的时区 %q: %w", c.Fixture.Timezone, err)
	}
	return loc, nil
}

// AnchorToday 表示不锚定，"本周"随当前日期变化
const AnchorToday = "today"

// DemoAnchor 返回"本周"所锚定的日期，取值为 today（或结构体中留空）时返回零值
func (c *Config) DemoAnchor(loc *time.Location) (time.Time, error) {
	if c.Schedule.DemoAnchor == "" || strings.EqualFold(c.Schedule.DemoAnchor, AnchorToday) {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, c.Schedule.DemoAnchor, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("无效的演示锚定日期 %q: %w", c.Schedule.DemoAnchor, err)
	}
	return t, nil
}
