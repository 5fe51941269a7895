package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/stockboard/stockboard/internal/app"
	"github.com/stockboard/stockboard/internal/config"
	"github.com/stockboard/stockboard/internal/stock"
	"github.com/stockboard/stockboard/internal/stock/service"
	"github.com/stockboard/stockboard/internal/tokens"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "stockctl",
		Short:        "Inspect and edit the stock collection",
		Long:         "stockctl talks to the configured stock store directly (same STOCKS_* settings as the server).",
		SilenceUsage: true,
	}
	root.AddCommand(newListCmd(), newAddCmd(), newInitCmd(), newTokenCmd(), newRevokeCmd())
	return root
}

// withService loads configuration, opens the store and runs fn against it.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc *service.Service) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())
	return fn(ctx, service.New(st.Repo, st.Backend))
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print all stocks as JSON, in stored order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *service.Service) error {
				recs, err := svc.List(ctx)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(recs)
			})
		},
	}
}

func newAddCmd() *cobra.Command {
	var (
		title, img, releaseDate, category, description string
		extra                                          []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append one stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := stock.NewRecord(stock.FieldTitle, title)
			for _, kv := range [][2]string{
				{stock.FieldImg, img},
				{stock.FieldReleaseDate, releaseDate},
				{stock.FieldCategory, category},
				{stock.FieldDescription, description},
			} {
				if cmd.Flags().Changed(flagName(kv[0])) {
					rec.Set(kv[0], kv[1])
				}
			}
			for _, f := range extra {
				name, value, ok := strings.Cut(f, "=")
				if !ok {
					return fmt.Errorf("--field %q: expected name=value", f)
				}
				rec.Set(name, value)
			}
			return withService(cmd, func(ctx context.Context, svc *service.Service) error {
				if err := svc.Add(ctx, rec); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "added")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "stock title (required)")
	cmd.Flags().StringVar(&img, flagName(stock.FieldImg), "", "image URL")
	cmd.Flags().StringVar(&releaseDate, flagName(stock.FieldReleaseDate), "", "release date")
	cmd.Flags().StringVar(&category, flagName(stock.FieldCategory), "", "category")
	cmd.Flags().StringVar(&description, flagName(stock.FieldDescription), "", "description")
	cmd.Flags().StringArrayVar(&extra, "field", nil, "additional field as name=value (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an empty collection if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *service.Service) error {
				if err := svc.Init(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "ready")
				return nil
			})
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a write token for WRITE_AUTH_MODE=jwt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("ttl") {
				ttl = cfg.Auth.JWTTTL
			}
			tok, err := tokens.GenerateWriteToken(cfg.Auth.JWTSecret, subject, ttl)
			if err != nil {
				return fmt.Errorf("mint token (is JWT_SECRET set?): %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "stockctl", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime (defaults to JWT_TTL_MINUTES)")
	return cmd
}

func newRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <token>",
		Short: "Withdraw a write token before it expires (needs REDIS_HOST)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			rdb := app.NewRedisClient(cfg)
			if rdb != nil {
				defer rdb.Close()
			}
			ver := tokens.NewHS256Verifier(cfg.Auth.JWTSecret).WithRevocations(tokens.NewRevocations(rdb))
			if err := ver.Revoke(cmd.Context(), strings.TrimSpace(args[0])); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "revoked")
			return nil
		},
	}
}
