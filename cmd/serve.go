package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"tgbridge/pkg/activity"
	"tgbridge/pkg/adapter"
	"tgbridge/pkg/config"
	"tgbridge/pkg/gateway"
	"tgbridge/pkg/logger"
	"tgbridge/pkg/metrics"
	"tgbridge/pkg/telegram"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook bridge",
	Long:  "Registers the Telegram webhook and serves inbound updates through the activity pipeline until interrupted.",
	Run: func(cmd *cobra.Command, args []string) {
		_ = args

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("failed to load config: %v\n", err)
			return
		}

		appLogger, err := logger.New(cfg.Logging)
		if err != nil {
			fmt.Printf("failed to initialize logger: %v\n", err)
			return
		}
		slog.SetDefault(appLogger)
		log := slog.Default().With("component", "cmd.serve")

		client, err := telegram.NewClient(cfg.Telegram, log)
		if err != nil {
			log.Error("Telegram configuration invalid", "error", err)
			return
		}

		bridge, err := adapter.New(cfg.Telegram, client, metrics.Default(), log)
		if err != nil {
			log.Error("Failed to initialize adapter", "error", err)
			return
		}
		bridge.Use(adapter.EventTypeMiddleware{})

		svc, err := gateway.NewService(cfg, bridge, echoLogic, log)
		if err != nil {
			log.Error("Failed to initialize gateway service", "error", err)
			return
		}

		runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info("Bridge started", "webhook_host", cfg.Telegram.WebhookHost, "webhook_path", cfg.Telegram.Path())
		if err := svc.Run(runCtx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error("Bridge runtime failed", "error", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// echoLogic is the out-of-the-box turn handler: it answers message turns with
// their own text. Real deployments supply their own logic through
// gateway.NewService.
func echoLogic(ctx context.Context, turn *adapter.TurnContext) error {
	if turn.Activity == nil || turn.Activity.Type != activity.TypeMessage {
		return nil
	}

	reply := &activity.Activity{
		ChannelID:    activity.ChannelID,
		Type:         activity.TypeMessage,
		Text:         turn.Activity.Text,
		Conversation: turn.Activity.Conversation,
	}

	_, err := turn.SendActivity(ctx, reply)
	return err
}
