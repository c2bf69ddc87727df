// codesctl es la herramienta de operación contra el codes store: las fallas
// del servicio solo se ven en logs, así que el operador necesita poder
// inspeccionar y reparar el estado de los códigos a mano.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/paycode/internal/codes"
	"github.com/dropDatabas3/paycode/internal/config"
	"github.com/dropDatabas3/paycode/internal/email"
)

type codesBackend interface {
	codes.Store
	codes.Lister
}

func main() {
	// .env para dev local; en CI/prod no suele existir y no pasa nada
	_ = godotenv.Load()

	var (
		cfgPath string
		timeout = 30 * time.Second
	)

	root := &cobra.Command{
		Use:           "codesctl",
		Short:         "Operate the remote access-codes store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", envOr("CONFIG_PATH", "config.yaml"), "path to config.yaml (optional)")

	// ── codes list ──
	var (
		onlyEligible bool
		asJSON       bool
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List code records from the store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, store, err := loadStore(cfgPath)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			list, err := store.List(ctx)
			if err != nil {
				return err
			}
			if onlyEligible {
				filtered := list[:0]
				for _, c := range list {
					if c.Eligible() {
						filtered = append(filtered, c)
					}
				}
				list = filtered
			}

			if asJSON {
				b, _ := json.MarshalIndent(list, "", "  ")
				fmt.Println(string(b))
				return nil
			}
			fmt.Printf("backend=%s codes=%d\n", cfg.Codes.Backend, len(list))
			for _, c := range list {
				fmt.Printf("%-28s id=%-26s used=%-5t sent=%t\n", c.Value, orDash(c.ID), c.Used, c.Sent)
			}
			return nil
		},
	}
	listCmd.Flags().BoolVar(&onlyEligible, "eligible", false, "only codes with used=false and sent=false")
	listCmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	// ── codes mark-sent ──
	markCmd := &cobra.Command{
		Use:   "mark-sent <code-value>",
		Short: "Flag a code as sent (repair after a failed store update)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := loadStore(cfgPath)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			list, err := store.List(ctx)
			if err != nil {
				return err
			}
			for _, c := range list {
				if c.Value == args[0] {
					if err := store.MarkSent(ctx, c); err != nil {
						return err
					}
					fmt.Printf("code %s marked as sent\n", c.Value)
					return nil
				}
			}
			return fmt.Errorf("code %q not found in store", args[0])
		},
	}

	// ── send-test ──
	var testTo string
	sendTestCmd := &cobra.Command{
		Use:   "send-test --to <email>",
		Short: "Send a test message through the configured email provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if testTo == "" {
				return fmt.Errorf("--to is required")
			}
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			sender := buildSender(cfg)
			if err := sender.Send(ctx, testTo, email.Subject, email.CodeBody("TEST-0000")); err != nil {
				return err
			}
			fmt.Printf("test email sent to %s via %s\n", testTo, cfg.Email.Provider)
			return nil
		},
	}
	sendTestCmd.Flags().StringVar(&testTo, "to", "", "destination address")

	root.AddCommand(listCmd, markCmd, sendTestCmd)

	if err := root.Execute(); err != nil {
		log.SetFlags(0)
		log.Fatalf("codesctl: %v", err)
	}
}

func loadStore(cfgPath string) (*config.Config, codesBackend, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Codes.BaseURL == "" {
		return nil, nil, fmt.Errorf("codes store base url is required (CODES_BASE_URL)")
	}
	switch cfg.Codes.Backend {
	case "sheetdb":
		return cfg, codes.NewSheetStore(cfg.Codes.BaseURL, cfg.Codes.Timeout), nil
	default:
		return cfg, codes.NewRESTStore(cfg.Codes.BaseURL, cfg.Codes.Timeout), nil
	}
}

func buildSender(cfg *config.Config) email.Sender {
	switch cfg.Email.Provider {
	case "sendgrid":
		return email.NewSendGrid(cfg.Email.SendGrid.APIKey, cfg.Email.From)
	case "smtp":
		s := email.NewSMTPSender(
			cfg.Email.SMTP.Host,
			cfg.Email.SMTP.Port,
			cfg.Email.From,
			cfg.Email.SMTP.Username,
			cfg.Email.SMTP.Password,
		)
		if cfg.Email.SMTP.TLS != "" {
			s.TLSMode = cfg.Email.SMTP.TLS
		}
		return s
	default:
		return email.NewPostmark(cfg.Email.Postmark.ServerToken, cfg.Email.From)
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
