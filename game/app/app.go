package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gomahjong/common/config"
	"gomahjong/common/log"
	"gomahjong/framework/game/local"
	"gomahjong/framework/game/record"
)

// Run 组装本地对局并运行，收到中断信号时取消正在进行的局
func Run(ctx context.Context, conf *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	repo, err := record.Open(ctx, conf.Record)
	if err != nil {
		return err
	}
	if repo != nil {
		defer func() {
			closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer closeCancel()
			if err := repo.Close(closeCtx); err != nil {
				log.Warn("关闭记录仓储失败: %v", err)
			}
		}()
	}

	game, err := local.New(conf, repo)
	if err != nil {
		return fmt.Errorf("本地对局初始化失败: %w", err)
	}
	defer game.Close()

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(c)
	go func() {
		select {
		case s := <-c:
			log.Info("收到信号 %v，停止对局", s)
			cancel()
		case <-ctx.Done():
		}
	}()

	rounds, err := game.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info("对局已中断，完成 %d 局", len(rounds))
		return nil
	}
	if err != nil {
		return err
	}
	log.Info("对局结束，共 %d 局", len(rounds))
	return nil
}
