package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/SlpAus/urble-backend/internal/app"
	"github.com/SlpAus/urble-backend/internal/platform/config"
	"github.com/SlpAus/urble-backend/internal/platform/database"
	"github.com/SlpAus/urble-backend/internal/platform/startup"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// options 是所有子命令共用的参数
type options struct {
	dsn string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "urblectl",
		Short:         "Administrative tasks for the Urble daily game backend.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	fs := cmd.PersistentFlags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.StringVar(&opts.dsn, "dsn", "", "database DSN, overrides database.dsn from config")

	cmd.AddCommand(
		newImportWordsCmd(opts),
		newBuildGameCmd(opts),
		newDailyWordsCmd(opts),
	)
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	return cmd
}

// setup 加载配置、连接数据库并组装服务。命令行工具不使用Redis。
func setup(ctx context.Context, opts *options) (*app.App, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if opts.dsn != "" {
		cfg.Database.DSN = opts.dsn
	}

	db, err := database.Open(cfg.Database.DSN, cfg.Database.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	if err := startup.InitializeApplication(ctx, db, cfg.Game.FallbackWords); err != nil {
		closeDB()
		return nil, nil, err
	}
	a, err := app.New(cfg, db, nil)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return a, closeDB, nil
}

func newImportWordsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import-words <file>",
		Short: "Import words from a text file (one per line) or a JSON word list.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			words, err := parseWordList(data)
			if err != nil {
				return fmt.Errorf("无法解析 %s: %w", args[0], err)
			}

			a, closeDB, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer closeDB()

			added, err := a.Words.Import(cmd.Context(), words)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d new words (%d read)\n", added, len(words))
			return nil
		},
	}
}

func newBuildGameCmd(opts *options) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "build-game",
		Short: "Build (or show) the stored game for a date.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeDB, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer closeDB()

			if date == "" {
				date = a.Games.Today()
			}
			g, err := a.Games.BuildGameForDate(cmd.Context(), date)
			if err != nil {
				return err
			}
			return printJSON(cmd, g)
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "game date as YYYY-MM-DD (default: today in the configured timezone)")
	return cmd
}

func newDailyWordsCmd(opts *options) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "daily-words",
		Short: "Print the deterministic daily words for a date.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeDB, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer closeDB()

			if date == "" {
				date = a.Daily.Today()
			}
			rounds, err := a.Daily.Build(cmd.Context(), date)
			if err != nil {
				return err
			}
			return printJSON(cmd, rounds)
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD (default: today in the configured timezone)")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseWordList 接受三种格式：JSON字符串数组、带 word 字段的JSON对象数组、每行一个词的纯文本。
// 纯文本中以 # 开头的行被忽略。
func parseWordList(data []byte) ([]string, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var plain []string
		if err := json.Unmarshal([]byte(trimmed), &plain); err == nil {
			return plain, nil
		}
		var entries []struct {
			Word string `json:"word"`
		}
		if err := json.Unmarshal([]byte(trimmed), &entries); err != nil {
			return nil, err
		}
		words := make([]string, 0, len(entries))
		for _, e := range entries {
			words = append(words, e.Word)
		}
		return words, nil
	}

	var words []string
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, nil
}
