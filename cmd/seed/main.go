package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/seed"
)

func main() {
	var n int
	var out string
	var weekOf string
	var randomSeed int64
	var emailDomain string

	flag.IntVar(&n, "n", 12, "要生成的员工数量")
	flag.StringVar(&out, "out", "shifts.json", "输出文件路径，- 表示标准输出")
	flag.StringVar(&weekOf, "week", "", "班次所在周的任意一天 (YYYY-MM-DD)，默认使用演示锚定日期")
	flag.Int64Var(&randomSeed, "seed", time.Now().UnixNano(), "随机数种子")
	flag.StringVar(&emailDomain, "email-domain", "example.com", "员工邮箱的域名")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("无法加载时区", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if n <= 0 {
		logger.Error("请输入合法的员工数量")
		os.Exit(1)
	}

	var weekStart time.Time
	switch weekOf {
	case "":
		weekStart, err = cfg.DemoAnchor(loc)
		if err == nil && weekStart.IsZero() {
			weekStart = time.Now().In(loc)
		}
	default:
		weekStart, err = time.ParseInLocation(time.DateOnly, weekOf, loc)
	}
	if err != nil {
		logger.Error("无效的日期", slog.String("error", err.Error()))
		os.Exit(1)
	}

	data, err := seed.GenerateJSON(seed.Options{
		WeekStart:   weekStart,
		Employees:   n,
		EmailDomain: emailDomain,
		Seed:        randomSeed,
	})
	if err != nil {
		logger.Error("无法生成演示数据", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if out == "-" {
		_, err = os.Stdout.Write(append(data, '\n'))
	} else {
		err = os.WriteFile(out, append(data, '\n'), 0o644)
	}
	if err != nil {
		logger.Error("无法写入文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("已生成演示数据", slog.String("out", out), slog.Int("employees", n), slog.Int64("seed", randomSeed))
}
