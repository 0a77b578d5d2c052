// StudyPilot CLI - a terminal chat client for the StudyPilot daemon.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	serverURL string
	sessionID string
	mode      string

	version = "0.1.0"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "spc",
		Short: "StudyPilot - chat with your study assistant",
		Long: `spc is the terminal client for the StudyPilot daemon.

It opens an interactive chat in one of two modes:
  study_helper  explanations tuned to what you already know
  planner       natural-language task and schedule management

Switch modes mid-conversation with /mode, clear the screen with
/clear, and leave with /exit.`,
		RunE: runChat,
	}

	rootCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8787", "daemon base URL")
	rootCmd.Flags().StringVar(&sessionID, "session", "", "session token (defaults to the shared default session)")
	rootCmd.Flags().StringVar(&mode, "mode", "study_helper", "conversation mode")

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(upcomingCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("spc %s\n", version)
		},
	}
}

func upcomingCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Show upcoming academic and professional tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := fmt.Sprintf("%s/api/upcoming?days=%d&session=%s", serverURL, days, sessionID)
			resp, err := http.Get(url)
			if err != nil {
				return fmt.Errorf("daemon not reachable: %w", err)
			}
			defer resp.Body.Close()

			var tasks []struct {
				Category string `json:"category"`
				Type     string `json:"type"`
				Title    string `json:"title"`
				Priority string `json:"priority"`
				DueDate  string `json:"due_date"`
				Deadline string `json:"deadline"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&tasks); err != nil {
				return err
			}

			if len(tasks) == 0 {
				fmt.Printf("Nothing due in the next %d days. 🎉\n", days)
				return nil
			}

			for _, t := range tasks {
				date := t.DueDate
				if t.Category == "professional" {
					date = t.Deadline
				}
				fmt.Printf("  %-12s %-10s %-8s %s  (%s)\n", t.Category, t.Type, t.Priority, t.Title, formatDate(date))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "days to look ahead")
	return cmd
}

func formatDate(iso string) string {
	if iso == "" {
		return "no date"
	}
	if ts, err := time.Parse(time.RFC3339, iso); err == nil {
		return ts.Local().Format("Mon Jan 2 15:04")
	}
	return iso
}

func runChat(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("spc chat needs an interactive terminal")
	}

	fmt.Printf("📚 StudyPilot (%s mode) — /mode, /clear, /exit\n\n", mode)

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("you> ")
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		switch {
		case input == "/exit" || input == "exit":
			fmt.Println("👋 Bye!")
			return nil

		case input == "/clear" || input == "clear":
			fmt.Print("\033[2J\033[H")
			continue

		case strings.HasPrefix(input, "/mode"):
			parts := strings.Fields(input)
			if len(parts) == 2 {
				mode = parts[1]
				fmt.Printf("switched to %s mode\n", mode)
			} else {
				fmt.Printf("current mode: %s (use /mode study_helper|planner)\n", mode)
			}
			continue
		}

		reply, err := sendChat(input)
		if err != nil {
			fmt.Printf("⚠️  %v\n", err)
			continue
		}
		fmt.Printf("\nassistant> %s\n\n", reply)
	}
}

func sendChat(message string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"message": message,
		"mode":    mode,
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/api/chat?session=%s", serverURL, sessionID)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("daemon not reachable: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Response string `json:"response"`
		Error    string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server error: %s", result.Error)
	}

	return result.Response, nil
}
