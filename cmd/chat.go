package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobcoach/internal/assistant"
	"github.com/spigell/jobcoach/internal/chat"
	"github.com/spigell/jobcoach/internal/ranking"
)

const (
	PromptNewSearch         = "New search"
	PromptAsk               = "Ask a question"
	PromptShowResults       = "Show results"
	PromptReportByEmployers = "Report by employers"
	PromptResultsToFile     = "Dump results to file"
	PromptResetChat         = "Reset chat"
	PromptNewSession        = "New session"
	PromptSwitchSession     = "Switch session"
	PromptExit              = "Exit"
	PromptOwnQuestion       = "Write my own question"
	PromptBack              = "back"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptNewSearch, PromptAsk, PromptShowResults, PromptReportByEmployers, PromptResultsToFile, PromptResetChat, PromptNewSession, PromptSwitchSession, PromptExit},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Search postings and ask questions about them interactively",
	Run: func(cmd *cobra.Command, _ []string) {
		runChat(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

type shell struct {
	env       *env
	assistant *assistant.Assistant
	sessions  *chat.Sessions
	session   *chat.Session
	cmd       *cobra.Command
}

func runChat(cmd *cobra.Command) {
	ctx := context.Background()
	e := setup()
	defer e.flushMetrics()

	sessions := chat.NewSessions()
	sh := &shell{
		env:       e,
		assistant: e.newAssistant(ctx),
		sessions:  sessions,
		session:   sessions.Create(),
		cmd:       cmd,
	}

	e.logger.Info("chat started", zap.String("session_id", sh.session.ID))

	for {
		_, action, err := prompt.Run()
		if err != nil {
			// ctrl+c or ctrl+d
			e.logger.Info("exiting", zap.Error(err))
			return
		}

		if err := sh.handleAction(ctx, action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			e.logger.Error("action failed", zap.String("action", action), zap.Error(err))
		}
	}
}

func (sh *shell) println(a ...any) {
	fmt.Fprintln(sh.cmd.OutOrStdout(), a...)
}

func (sh *shell) handleAction(ctx context.Context, action string) error {
	switch action {
	case PromptNewSearch:
		return sh.newSearch(ctx)
	case PromptAsk:
		return sh.ask()
	case PromptShowResults:
		results := sh.session.Results()
		if len(results) == 0 {
			sh.println(chat.MessageNoData)
			return nil
		}
		printResults(sh.cmd.OutOrStdout(), results)
		return nil
	case PromptReportByEmployers:
		list := ranking.Postings(sh.session.Results())
		pretty, _ := json.MarshalIndent(list.ReportByEmployer(), "", "  ")
		sh.println(string(pretty))
		return nil
	case PromptResultsToFile:
		filename, err := ranking.Postings(sh.session.Results()).DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		sh.env.logger.Info("dumping results to file", zap.String("filename", filename))
		return nil
	case PromptResetChat:
		sh.assistant.ResetChat(sh.session)
		sh.println("Chatten är rensad.")
		return nil
	case PromptNewSession:
		sh.session = sh.sessions.Create()
		sh.env.logger.Info("session started", zap.String("session_id", sh.session.ID), zap.Int("sessions", sh.sessions.Len()))
		return nil
	case PromptSwitchSession:
		return sh.switchSession()
	case PromptExit:
		sh.env.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (sh *shell) newSearch(ctx context.Context) error {
	queryPrompt := promptui.Prompt{
		Label: "Vad letar du efter",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("empty query")
			}
			return nil
		},
	}
	query, err := queryPrompt.Run()
	if err != nil {
		return err
	}

	req := sh.env.request(query, "", 0, 0)
	cityPrompt := promptui.Prompt{Label: "Ort (valfritt)", Default: req.City, AllowEdit: true}
	city, err := cityPrompt.Run()
	if err != nil {
		return err
	}
	req.City = strings.TrimSpace(city)

	outcome, err := sh.assistant.Search(ctx, sh.session, req)
	if err != nil {
		if banner := embeddingBanner(err); banner != "" {
			sh.println(banner)
			return nil
		}
		return err
	}

	sh.println(outcome.Summary.String())
	printResults(sh.cmd.OutOrStdout(), outcome.Results)
	return nil
}

func (sh *shell) ask() error {
	questionPrompt := promptui.Select{
		Label: "Choose a question and press ENTER",
		Items: append(append([]string{}, chat.PredefinedQuestions...), PromptOwnQuestion, PromptBack),
	}

	_, question, err := questionPrompt.Run()
	if err != nil {
		return err
	}

	switch question {
	case PromptBack:
		return nil
	case PromptOwnQuestion:
		own := promptui.Prompt{Label: "Fråga"}
		question, err = own.Run()
		if err != nil {
			return err
		}
	}

	sh.println(sh.assistant.Ask(sh.session, question))
	return nil
}

func (sh *shell) switchSession() error {
	list := sh.sessions.List()
	labels := make([]string, 0, len(list)+1)
	for _, s := range list {
		query := s.Query()
		if query == "" {
			query = "-"
		}
		labels = append(labels, fmt.Sprintf("%s  %s (%d)", s.ID, query, len(s.Results())))
	}

	sessionPrompt := promptui.Select{
		Label: "Choose a session",
		Items: append(labels, PromptBack),
	}
	i, _, err := sessionPrompt.Run()
	if err != nil {
		return err
	}
	if i == len(list) {
		return nil
	}

	sh.session = list[i]
	sh.env.logger.Info("session switched", zap.String("session_id", sh.session.ID))
	return nil
}
