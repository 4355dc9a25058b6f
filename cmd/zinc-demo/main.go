// Command zinc-demo runs the rich-text editor full screen.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iw2rmb/zinc"
	"github.com/iw2rmb/zinc/attachment"
	"github.com/iw2rmb/zinc/commandsource"
	"github.com/iw2rmb/zinc/editor"
	"github.com/iw2rmb/zinc/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:          "zinc-demo",
	Short:        "Edit rich text in the terminal",
	Long:         `zinc-demo opens the editor with its toolbar, "/" command palette and attachment uploads.`,
	SilenceUsage: true,
	RunE:         run,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println("zinc-demo", zinc.VersionTag())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("value", "", "HTML file loaded as the initial document")
	flags.String("upload-endpoint", "", "URL that hands out upload targets")
	flags.String("responses", "", "canned responses: an http(s) URL or a YAML/JSON file")
	flags.Bool("read-only", false, "open the document read-only")
	flags.String("log-level", "", "log level (debug|info|warn|error)")
	flags.String("log-file", "", "write logs to this file")

	for _, name := range []string{"value", "upload-endpoint", "responses", "read-only", "log-level", "log-file"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			fmt.Fprintf(os.Stderr, "bind %s flag: %v\n", name, err)
			os.Exit(1)
		}
	}

	viper.SetEnvPrefix("ZINC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(versionCmd)
}

func run(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := openLogger(viper.GetString("log-file"), viper.GetString("log-level"))
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := editorConfig(logger)
	if err != nil {
		return err
	}

	m := newModel(cfg)
	defer m.editor.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run editor: %w", err)
	}
	if fm, ok := final.(model); ok {
		printResult(os.Stdout, fm)
	}
	return nil
}

// editorConfig builds the editor configuration from flags and environment.
func editorConfig(logger *log.Logger) (editor.Config, error) {
	cfg := editor.Config{
		ID:        "zinc-demo",
		Text:      "Welcome to zinc.\nType / to open the command palette.\n",
		ReadOnly:  viper.GetBool("read-only"),
		Clipboard: systemClipboard{},
		Logger:    logger,
	}

	if path := viper.GetString("value"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read value: %w", err)
		}
		cfg.Value = string(data)
	}

	if endpoint := viper.GetString("upload-endpoint"); endpoint != "" {
		client, err := attachment.NewClient(attachment.ClientConfig{Endpoint: endpoint})
		if err != nil {
			return cfg, err
		}
		cfg.Uploader = client
	}

	if src := viper.GetString("responses"); src != "" {
		if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
			cfg.CommandSource = commandsource.NewSource(src, commandsource.Client{}, logger)
		} else {
			rs, err := commandsource.LoadFile(src)
			if err != nil {
				return cfg, err
			}
			cfg.CannedResponses = rs
		}
	}
	return cfg, nil
}

// openLogger writes to path when set. Without a file the TUI owns the
// terminal, so logs are dropped.
func openLogger(path, level string) (*log.Logger, func(), error) {
	if path == "" {
		return logging.Discard(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := logging.NewWithWriter(f, "zinc")
	if level != "" {
		lvl, err := log.ParseLevel(level)
		if err != nil {
			_ = f.Close()
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		logger.SetLevel(lvl)
	}
	return logger, func() { _ = f.Close() }, nil
}

func printResult(w io.Writer, m model) {
	form := m.editor.Form()
	fmt.Fprint(w, m.editor.Buffer().Text())
	fmt.Fprintf(w, "attachments: %s\n", form.Attachments)
	if !form.StartTime.IsZero() {
		fmt.Fprintf(w, "first edit after %s\n", form.StartTime.Sub(form.OpenTime).Round(time.Millisecond))
	}
}
