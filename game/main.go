package main

import (
	"context"
	"fmt"
	"os"

	"gomahjong/common/config"
	"gomahjong/common/log"
	"gomahjong/common/metrics"
	"gomahjong/game/app"

	"github.com/spf13/cobra"
)

// 加载配置 -> 启动监控 -> 本地对局

var (
	configFile string
	logLevel   string
	identifier string
)

var rootCmd = &cobra.Command{
	Use:   "game",
	Short: "game 本地麻将对局",
	Long:  `game 本地麻将对局：四个机器人按规则仲裁进行若干局`,
	Run: func(cmd *cobra.Command, args []string) {
		conf := config.Default()
		if configFile != "" {
			loaded, err := config.Load(configFile, log.SetLevel)
			if err != nil {
				log.Fatal("文件配置发生错误：%v", err)
			}
			conf = loaded
		}
		if logLevel != "" {
			conf.Log.Level = logLevel
		}
		if identifier != "" {
			conf.AppName = identifier
		}

		log.InitLog(conf.AppName, conf.Log.Level)
		log.Info("配置文件: %+v", conf)

		if conf.MetricPort > 0 {
			go func() {
				log.Info("启动监控..., URL: http://localhost:%d/debug/statsviz/", conf.MetricPort)
				if err := metrics.Serve(fmt.Sprintf("0.0.0.0:%d", conf.MetricPort)); err != nil {
					log.Error("监控服务退出: %v", err)
				}
			}()
		}

		if err := app.Run(context.Background(), conf); err != nil {
			log.Error("发生异常: %v", err)
			os.Exit(-1)
		}
	},
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "resource", "", "resource file")
	rootCmd.Flags().StringVar(&logLevel, "logLevel", "", "log level: debug | info | warn | error")
	rootCmd.Flags().StringVar(&identifier, "identifier", "", "node identifier")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("error happen: %#v", err)
		os.Exit(1)
	}
}
